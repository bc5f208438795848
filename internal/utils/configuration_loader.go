package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorConstant            = "."
	environmentKeyJoinerConstant               = "_"
	configurationReadErrorTemplateConstant     = "unable to read configuration file: %w"
	configurationDecodeErrorTemplateConstant   = "unable to decode configuration: %w"
	embeddedDefaultsMergeErrorTemplateConstant = "unable to merge embedded defaults: %w"
)

// ConfigurationLoader resolves the CLI configuration by layering, lowest
// precedence first: embedded defaults, caller-supplied default values, a
// configuration file found on the search paths (or named explicitly), and
// environment variables carrying the loader's prefix.
type ConfigurationLoader struct {
	configurationName string
	configurationType string
	environmentPrefix string
	searchPaths       []string
	embeddedDefaults  []byte
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches the given paths for a
// configuration file and honors environment overrides under the given prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// SetEmbeddedConfiguration stores embedded default data, expressed in the
// loader's configuration type, merged beneath every other source.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte) {
	if loader == nil {
		return
	}
	loader.embeddedDefaults = append([]byte(nil), configurationData...)
}

// LoadConfiguration populates targetConfiguration from the layered sources and
// reports which configuration file, if any, contributed.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if mergeError := loader.mergeEmbeddedDefaults(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	loader.bindEnvironment(viperInstance)

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}
	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		if _, isNotFound := readError.(viper.ConfigFileNotFoundError); !isNotFound {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if decodeError := viperInstance.Unmarshal(targetConfiguration); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedDefaults(viperInstance *viper.Viper) error {
	if len(loader.embeddedDefaults) == 0 {
		return nil
	}
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedDefaults)); mergeError != nil {
		return fmt.Errorf(embeddedDefaultsMergeErrorTemplateConstant, mergeError)
	}
	return nil
}

// bindEnvironment maps configuration keys such as jira.api_token to prefixed
// environment variables such as EPICMIGRATE_JIRA_API_TOKEN.
func (loader *ConfigurationLoader) bindEnvironment(viperInstance *viper.Viper) {
	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorConstant, environmentKeyJoinerConstant))
	viperInstance.AutomaticEnv()
}
