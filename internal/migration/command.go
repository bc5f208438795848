package migration

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/utils"
)

const (
	runCommandUseConstant                  = "run"
	runCommandShortDescriptionConstant     = "Clone a template Epic into a target project"
	runCommandLongDescriptionConstant      = "run copies the template Epic and its child issues into the target project, shifting every date by the offset between the Epic's original start date and the chosen new start date and recreating the links between migrated issues."
	previewCommandUseConstant              = "preview"
	previewCommandShortDescriptionConstant = "Show the schedule a migration would produce"
	previewCommandLongDescriptionConstant  = "preview fetches the template Epic and its children and prints the dates each issue would receive, without creating anything."
	epicFlagNameConstant                   = "epic"
	epicFlagUsageConstant                  = "Source template Epic key"
	projectFlagNameConstant                = "project"
	projectFlagUsageConstant               = "Target project key"
	startFlagNameConstant                  = "start"
	startFlagUsageConstant                 = "New start date for the Epic (YYYY-MM-DD)"
	manifestFlagNameConstant               = "manifest"
	manifestFlagUsageConstant              = "Path to a migration manifest file"
	startDateLayoutConstant                = "2006-01-02"
	startDateParseErrorTemplateConstant    = "unable to parse start date %q: %w"
	epicRequiredMessageConstant            = "a source epic must be provided via --epic or a manifest"
	projectRequiredMessageConstant         = "a target project must be provided via --project or a manifest"
	startRequiredMessageConstant           = "a new start date must be provided via --start or a manifest"
	runFailedErrorTemplateConstant         = "migration failed in state %s: %w"
	previewFetchEpicErrorTemplateConstant  = "unable to fetch epic %s: %w"
	previewFetchChildrenErrorTemplate      = "unable to fetch children of %s: %w"
	previewHeaderTemplateConstant          = "Schedule preview for %s (delta %+d days)\n"
	previewRowTemplateConstant             = "%-12s  %-12s  %-10s  %-10s  %s\n"
	previewPlaceholderSuffixConstant       = " (placeholder)"
	previewAbsentDateConstant              = "-"
	runSummaryTemplateConstant             = "Created epic %s with %d child issues, %d links (%d skipped)\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// RepositoryProvider constructs the issue repository used by migration
// commands.
type RepositoryProvider func(logger *zap.Logger, fields jira.FieldConfiguration) (IssueRepository, error)

// CredentialsProvider supplies configured credential values.
type CredentialsProvider func() jira.Credentials

type commandOptions struct {
	migration           MigrationOptions
	debugLoggingEnabled bool
}

// RunCommandBuilder assembles the run Cobra command.
type RunCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	CredentialsProvider   CredentialsProvider
	RepositoryProvider    RepositoryProvider
}

// Build constructs the run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           runCommandUseConstant,
		Short:         runCommandShortDescriptionConstant,
		Long:          runCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runMigration,
	}

	registerMigrationFlags(command)

	return command, nil
}

func (builder *RunCommandBuilder) runMigration(command *cobra.Command, _ []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	options, optionsError := parseCommandOptions(command, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := resolveLogger(builder.LoggerProvider, options.debugLoggingEnabled)

	repository, repositoryError := resolveRepository(builder.RepositoryProvider, builder.CredentialsProvider, logger, configuration)
	if repositoryError != nil {
		return repositoryError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:     logger,
		Repository: repository,
		Fields:     configuration.FieldConfiguration(),
		MaxResults: configuration.MaxResults,
	})
	if serviceError != nil {
		return serviceError
	}

	result, migrationError := service.Execute(command.Context(), options.migration)
	if migrationError != nil {
		return fmt.Errorf(runFailedErrorTemplateConstant, result.State, migrationError)
	}

	fmt.Fprintf(command.OutOrStdout(), runSummaryTemplateConstant, result.NewEpicKey, len(result.CreatedIssues), len(result.CreatedLinks), result.SkippedLinks)
	return nil
}

// PreviewCommandBuilder assembles the preview Cobra command.
type PreviewCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	CredentialsProvider   CredentialsProvider
	RepositoryProvider    RepositoryProvider
}

// Build constructs the preview command.
func (builder *PreviewCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           previewCommandUseConstant,
		Short:         previewCommandShortDescriptionConstant,
		Long:          previewCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runPreview,
	}

	registerMigrationFlags(command)

	return command, nil
}

func (builder *PreviewCommandBuilder) runPreview(command *cobra.Command, _ []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	options, optionsError := parseCommandOptions(command, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := resolveLogger(builder.LoggerProvider, options.debugLoggingEnabled)

	repository, repositoryError := resolveRepository(builder.RepositoryProvider, builder.CredentialsProvider, logger, configuration)
	if repositoryError != nil {
		return repositoryError
	}

	fields := configuration.FieldConfiguration()

	epic, epicFetchError := repository.Issue(command.Context(), options.migration.SourceEpicKey)
	if epicFetchError != nil {
		return fmt.Errorf(previewFetchEpicErrorTemplateConstant, options.migration.SourceEpicKey, epicFetchError)
	}

	children, childrenFetchError := repository.SearchIssues(command.Context(), jira.SearchRequest{
		JQL:        jira.ChildIssuesJQL(options.migration.SourceEpicKey, fields.StartDateFieldID),
		Fields:     fields.ChildFieldSet(),
		MaxResults: configuration.MaxResults,
	})
	if childrenFetchError != nil {
		return fmt.Errorf(previewFetchChildrenErrorTemplate, options.migration.SourceEpicKey, childrenFetchError)
	}

	preview := BuildSchedulePreview(epic, children, options.migration.NewStartDate)

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, previewHeaderTemplateConstant, epic.Key, preview.DeltaDays)
	writePreviewRow(outputWriter, preview.EpicRow)
	for _, childRow := range preview.ChildRows {
		writePreviewRow(outputWriter, childRow)
	}
	return nil
}

func writePreviewRow(outputWriter io.Writer, row ScheduleRow) {
	dueValue := formatPreviewDate(row.NewDueDate)
	if row.PlaceholderDue {
		dueValue += previewPlaceholderSuffixConstant
	}
	fmt.Fprintf(outputWriter, previewRowTemplateConstant, row.SourceKey, row.TypeName, formatPreviewDate(row.NewStartDate), dueValue, row.Summary)
}

func formatPreviewDate(value *time.Time) string {
	if value == nil {
		return previewAbsentDateConstant
	}
	return value.Format(startDateLayoutConstant)
}

func registerMigrationFlags(command *cobra.Command) {
	command.Flags().String(epicFlagNameConstant, "", epicFlagUsageConstant)
	command.Flags().String(projectFlagNameConstant, "", projectFlagUsageConstant)
	command.Flags().String(startFlagNameConstant, "", startFlagUsageConstant)
	command.Flags().String(manifestFlagNameConstant, "", manifestFlagUsageConstant)
}

// parseCommandOptions combines manifest values with command flags. Flags win
// over manifest entries so an operator can replay a stored manifest with a
// different start date.
func parseCommandOptions(command *cobra.Command, configuration CommandConfiguration) (commandOptions, error) {
	options := commandOptions{debugLoggingEnabled: configuration.EnableDebugLogging}

	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			if strings.EqualFold(logLevel, string(utils.LogLevelDebug)) {
				options.debugLoggingEnabled = true
			}
		}
	}

	manifestPath, _ := command.Flags().GetString(manifestFlagNameConstant)
	if len(strings.TrimSpace(manifestPath)) > 0 {
		manifest, manifestError := LoadManifest(manifestPath)
		if manifestError != nil {
			return commandOptions{}, manifestError
		}
		manifestOptions, conversionError := manifest.MigrationOptions()
		if conversionError != nil {
			return commandOptions{}, conversionError
		}
		options.migration = manifestOptions
	}

	if command.Flags().Changed(epicFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(epicFlagNameConstant)
		options.migration.SourceEpicKey = strings.TrimSpace(flagValue)
	}
	if command.Flags().Changed(projectFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(projectFlagNameConstant)
		options.migration.TargetProjectKey = strings.TrimSpace(flagValue)
	}
	if command.Flags().Changed(startFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(startFlagNameConstant)
		startDate, parseError := time.Parse(startDateLayoutConstant, strings.TrimSpace(flagValue))
		if parseError != nil {
			return commandOptions{}, fmt.Errorf(startDateParseErrorTemplateConstant, flagValue, parseError)
		}
		options.migration.NewStartDate = startDate
	}

	if len(options.migration.SourceEpicKey) == 0 {
		return commandOptions{}, InvalidInputError{FieldName: epicFlagNameConstant, Message: epicRequiredMessageConstant}
	}
	if len(options.migration.TargetProjectKey) == 0 {
		return commandOptions{}, InvalidInputError{FieldName: projectFlagNameConstant, Message: projectRequiredMessageConstant}
	}
	if options.migration.NewStartDate.IsZero() {
		return commandOptions{}, InvalidInputError{FieldName: startFlagNameConstant, Message: startRequiredMessageConstant}
	}

	return options, nil
}

func resolveConfiguration(configurationProvider func() CommandConfiguration) CommandConfiguration {
	if configurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return configurationProvider().Sanitize()
}

func resolveLogger(loggerProvider LoggerProvider, enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if loggerProvider != nil {
		logger = loggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func resolveRepository(repositoryProvider RepositoryProvider, credentialsProvider CredentialsProvider, logger *zap.Logger, configuration CommandConfiguration) (IssueRepository, error) {
	fields := configuration.FieldConfiguration()

	if repositoryProvider != nil {
		return repositoryProvider(logger, fields)
	}

	configuredCredentials := jira.Credentials{}
	if credentialsProvider != nil {
		configuredCredentials = credentialsProvider()
	}

	credentials, credentialsError := jira.ResolveCredentials(configuredCredentials)
	if credentialsError != nil {
		return nil, credentialsError
	}

	return jira.NewClient(credentials, fields, logger)
}
