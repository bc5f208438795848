package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/epicops/epicmigrate/cmd/cli"
	"github.com/epicops/epicmigrate/internal/migration"
)

const (
	embeddedConfigurationTypeConstant     = "yaml"
	migrationToolConfigurationKeyConstant = "tools.migration"
	expectedSourceProjectConstant         = "PPT"
	expectedProjectCategoryConstant       = "Production"
	expectedStartDateFieldConstant        = "customfield_10015"
	expectedEpicLinkFieldConstant         = "customfield_10014"
	expectedMaxResultsConstant            = 200
)

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	viperInstance := viper.New()
	viperInstance.SetConfigType(embeddedConfigurationTypeConstant)

	readError := viperInstance.ReadConfig(bytes.NewReader(cli.EmbeddedDefaultConfiguration()))
	require.NoError(testingInstance, readError)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration
}

func decodeToolOptions(testingInstance testing.TB, options map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testingInstance, decoderError)

	decodeError := decoder.Decode(options)
	require.NoError(testingInstance, decodeError)
}

func TestEmbeddedDefaultConfiguration(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Empty(testInstance, configuration.Jira.BaseURL)
	require.Empty(testInstance, configuration.Jira.Email)
	require.Empty(testInstance, configuration.Jira.APIToken)

	migrationConfiguration := configuration.Tools.Migration.Sanitize()
	require.Equal(testInstance, expectedSourceProjectConstant, migrationConfiguration.SourceProjectKey)
	require.Equal(testInstance, expectedProjectCategoryConstant, migrationConfiguration.ProjectCategory)
	require.Equal(testInstance, expectedStartDateFieldConstant, migrationConfiguration.StartDateFieldID)
	require.Equal(testInstance, expectedEpicLinkFieldConstant, migrationConfiguration.EpicLinkFieldID)
	require.Equal(testInstance, expectedMaxResultsConstant, migrationConfiguration.MaxResults)
	require.False(testInstance, migrationConfiguration.EnableDebugLogging)
}

func TestEmbeddedMigrationSectionDecodesThroughMapstructure(testInstance *testing.T) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(embeddedConfigurationTypeConstant)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(cli.EmbeddedDefaultConfiguration())))

	toolOptions := viperInstance.GetStringMap(migrationToolConfigurationKeyConstant)
	require.NotEmpty(testInstance, toolOptions)

	var migrationConfiguration migration.CommandConfiguration
	decodeToolOptions(testInstance, toolOptions, &migrationConfiguration)

	sanitized := migrationConfiguration.Sanitize()
	require.Equal(testInstance, expectedSourceProjectConstant, sanitized.SourceProjectKey)
	require.Equal(testInstance, expectedMaxResultsConstant, sanitized.MaxResults)
}

func TestEmbeddedMigrationDefaultsMatchPackageDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, migration.DefaultCommandConfiguration(), configuration.Tools.Migration.Sanitize())
}
