package migration_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epicops/epicmigrate/internal/migration"
)

func TestCommandConfigurationSanitizeRestoresDefaults(testInstance *testing.T) {
	testInstance.Parallel()

	sanitized := migration.CommandConfiguration{
		SourceProjectKey: "  ",
		ProjectCategory:  " Production ",
		StartDateFieldID: "",
		EpicLinkFieldID:  "",
		MaxResults:       0,
	}.Sanitize()

	require.Equal(testInstance, "PPT", sanitized.SourceProjectKey)
	require.Equal(testInstance, "Production", sanitized.ProjectCategory)
	require.Equal(testInstance, "customfield_10015", sanitized.StartDateFieldID)
	require.Equal(testInstance, "customfield_10014", sanitized.EpicLinkFieldID)
	require.Equal(testInstance, 200, sanitized.MaxResults)
}

func TestCommandConfigurationSanitizeKeepsConfiguredValues(testInstance *testing.T) {
	testInstance.Parallel()

	sanitized := migration.CommandConfiguration{
		SourceProjectKey: "TPL",
		ProjectCategory:  "",
		StartDateFieldID: "customfield_20001",
		EpicLinkFieldID:  "customfield_20002",
		MaxResults:       50,
	}.Sanitize()

	require.Equal(testInstance, "TPL", sanitized.SourceProjectKey)
	require.Empty(testInstance, sanitized.ProjectCategory)
	require.Equal(testInstance, "customfield_20001", sanitized.StartDateFieldID)
	require.Equal(testInstance, "customfield_20002", sanitized.EpicLinkFieldID)
	require.Equal(testInstance, 50, sanitized.MaxResults)
}

func TestDefaultConfigurationValuesUsePrefix(testInstance *testing.T) {
	testInstance.Parallel()

	values := migration.DefaultConfigurationValues("tools.migration")

	require.Equal(testInstance, "PPT", values["tools.migration.source_project"])
	require.Equal(testInstance, "Production", values["tools.migration.project_category"])
	require.Equal(testInstance, "customfield_10015", values["tools.migration.start_date_field"])
	require.Equal(testInstance, "customfield_10014", values["tools.migration.epic_link_field"])
	require.Equal(testInstance, 200, values["tools.migration.max_results"])
	require.Equal(testInstance, false, values["tools.migration.debug"])
}
