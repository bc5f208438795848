package migration

import (
	"strings"

	"github.com/epicops/epicmigrate/internal/jira"
)

const (
	defaultSourceProjectKeyConstant = "PPT"
	defaultProjectCategoryConstant  = "Production"
	defaultMaxResultsConstant       = 200
	sourceProjectConfigurationKey   = "source_project"
	projectCategoryConfigurationKey = "project_category"
	startDateFieldConfigurationKey  = "start_date_field"
	epicLinkFieldConfigurationKey   = "epic_link_field"
	maxResultsConfigurationKey      = "max_results"
	debugConfigurationKey           = "debug"
)

// CommandConfiguration captures persisted configuration for migration commands.
type CommandConfiguration struct {
	SourceProjectKey   string `mapstructure:"source_project"`
	ProjectCategory    string `mapstructure:"project_category"`
	StartDateFieldID   string `mapstructure:"start_date_field"`
	EpicLinkFieldID    string `mapstructure:"epic_link_field"`
	MaxResults         int    `mapstructure:"max_results"`
	EnableDebugLogging bool   `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for
// migration commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SourceProjectKey: defaultSourceProjectKeyConstant,
		ProjectCategory:  defaultProjectCategoryConstant,
		StartDateFieldID: jira.DefaultStartDateFieldID,
		EpicLinkFieldID:  jira.DefaultEpicLinkFieldID,
		MaxResults:       defaultMaxResultsConstant,
	}
}

// DefaultConfigurationValues exposes baseline values keyed for configuration
// file generation under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + "." + sourceProjectConfigurationKey:   defaults.SourceProjectKey,
		prefix + "." + projectCategoryConfigurationKey: defaults.ProjectCategory,
		prefix + "." + startDateFieldConfigurationKey:  defaults.StartDateFieldID,
		prefix + "." + epicLinkFieldConfigurationKey:   defaults.EpicLinkFieldID,
		prefix + "." + maxResultsConfigurationKey:      defaults.MaxResults,
		prefix + "." + debugConfigurationKey:           defaults.EnableDebugLogging,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()

	sanitized := configuration
	sanitized.SourceProjectKey = fallbackValue(configuration.SourceProjectKey, defaults.SourceProjectKey)
	sanitized.ProjectCategory = strings.TrimSpace(configuration.ProjectCategory)
	sanitized.StartDateFieldID = fallbackValue(configuration.StartDateFieldID, defaults.StartDateFieldID)
	sanitized.EpicLinkFieldID = fallbackValue(configuration.EpicLinkFieldID, defaults.EpicLinkFieldID)
	if sanitized.MaxResults <= 0 {
		sanitized.MaxResults = defaults.MaxResults
	}
	return sanitized
}

// FieldConfiguration converts the configured custom field identifiers into the
// issue client's field configuration.
func (configuration CommandConfiguration) FieldConfiguration() jira.FieldConfiguration {
	return jira.FieldConfiguration{
		StartDateFieldID: configuration.StartDateFieldID,
		EpicLinkFieldID:  configuration.EpicLinkFieldID,
	}.Sanitize()
}

func fallbackValue(candidate string, defaultValue string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return defaultValue
	}
	return trimmedCandidate
}
