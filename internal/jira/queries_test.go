package jira_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epicops/epicmigrate/internal/jira"
)

func TestTemplateEpicsJQL(testInstance *testing.T) {
	testInstance.Parallel()

	require.Equal(
		testInstance,
		"project = PPT AND issuetype = Epic ORDER BY created DESC",
		jira.TemplateEpicsJQL("PPT"),
	)
}

func TestChildIssuesJQL(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name             string
		startDateFieldID string
		expectedJQL      string
	}{
		{
			name:             "custom_field_prefix_stripped",
			startDateFieldID: "customfield_10015",
			expectedJQL:      `"parent" = PPT-1 ORDER BY cf[10015] ASC`,
		},
		{
			name:             "bare_numeric_identifier",
			startDateFieldID: "20001",
			expectedJQL:      `"parent" = PPT-1 ORDER BY cf[20001] ASC`,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			require.Equal(subtestInstance, testCase.expectedJQL, jira.ChildIssuesJQL("PPT-1", testCase.startDateFieldID))
		})
	}
}

func TestFieldConfigurationFieldSets(testInstance *testing.T) {
	testInstance.Parallel()

	configuration := jira.FieldConfiguration{}

	require.Equal(
		testInstance,
		[]string{"summary", "description", "status", "customfield_10015"},
		configuration.TemplateFieldSet(),
	)
	require.Equal(
		testInstance,
		[]string{"summary", "status", "description", "issuetype", "duedate", "issuelinks", "customfield_10015"},
		configuration.ChildFieldSet(),
	)
}

func TestFieldConfigurationSanitize(testInstance *testing.T) {
	testInstance.Parallel()

	sanitized := jira.FieldConfiguration{}.Sanitize()
	require.Equal(testInstance, jira.DefaultStartDateFieldID, sanitized.StartDateFieldID)
	require.Equal(testInstance, jira.DefaultEpicLinkFieldID, sanitized.EpicLinkFieldID)

	configured := jira.FieldConfiguration{StartDateFieldID: "customfield_20001", EpicLinkFieldID: "customfield_20002"}.Sanitize()
	require.Equal(testInstance, "customfield_20001", configured.StartDateFieldID)
	require.Equal(testInstance, "customfield_20002", configured.EpicLinkFieldID)
}
