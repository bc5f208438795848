package migration_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epicops/epicmigrate/internal/migration"
)

func writeManifestFile(testInstance *testing.T, content string) string {
	manifestPath := filepath.Join(testInstance.TempDir(), "manifest.yaml")
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(content), 0o600))
	return manifestPath
}

func TestLoadManifest(testInstance *testing.T) {
	testInstance.Parallel()

	manifestPath := writeManifestFile(testInstance, "source_epic: PPT-1\ntarget_project: NP\nnew_start_date: \"2024-02-01\"\n")

	manifest, loadError := migration.LoadManifest(manifestPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "PPT-1", manifest.SourceEpic)
	require.Equal(testInstance, "NP", manifest.TargetProject)

	options, conversionError := manifest.MigrationOptions()
	require.NoError(testInstance, conversionError)
	require.Equal(testInstance, "PPT-1", options.SourceEpicKey)
	require.Equal(testInstance, "NP", options.TargetProjectKey)
	require.Equal(testInstance, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), options.NewStartDate)
}

func TestLoadManifestValidationFailures(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "missing_source_epic",
			content: "target_project: NP\nnew_start_date: \"2024-02-01\"\n",
		},
		{
			name:    "missing_target_project",
			content: "source_epic: PPT-1\nnew_start_date: \"2024-02-01\"\n",
		},
		{
			name:    "missing_start_date",
			content: "source_epic: PPT-1\ntarget_project: NP\n",
		},
		{
			name:    "malformed_yaml",
			content: "source_epic: [\n",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			manifestPath := writeManifestFile(subtestInstance, testCase.content)

			_, loadError := migration.LoadManifest(manifestPath)
			require.Error(subtestInstance, loadError)
		})
	}
}

func TestLoadManifestRequiresPath(testInstance *testing.T) {
	testInstance.Parallel()

	_, loadError := migration.LoadManifest("  ")
	require.Error(testInstance, loadError)
}

func TestManifestMigrationOptionsRejectsMalformedDate(testInstance *testing.T) {
	testInstance.Parallel()

	manifest := migration.Manifest{SourceEpic: "PPT-1", TargetProject: "NP", NewStartDate: "02/01/2024"}

	_, conversionError := manifest.MigrationOptions()
	require.Error(testInstance, conversionError)
}
