package templates

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/migration"
)

const (
	commandShortDescriptionConstant  = "List template Epics in the source project"
	commandLongDescriptionConstant   = "templates lists the template Epics of the configured source project, newest first. Passing an Epic key shows that template's description and child issues in schedule order."
	commandArgumentsUsageConstant    = "templates [epic-key]"
	templateListHeaderTemplate       = "Template epics in %s:\n"
	templateListRowTemplateConstant  = "%-12s  %s\n"
	templateDetailHeaderTemplate     = "%s  %s\n"
	templateChildRowTemplateConstant = "  %-12s  %-12s  %-10s  %-10s  %s\n"
	absentDateConstant               = "-"
	dateLayoutConstant               = "2006-01-02"
	descriptionSeparatorConstant     = "\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// SearcherProvider constructs the issue searcher used by the command.
type SearcherProvider func(logger *zap.Logger, fields jira.FieldConfiguration) (IssueSearcher, error)

// CommandBuilder assembles the templates Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() migration.CommandConfiguration
	CredentialsProvider   func() jira.Credentials
	SearcherProvider      SearcherProvider
}

// Build constructs the templates command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandArgumentsUsageConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          builder.runTemplates,
	}

	return command, nil
}

func (builder *CommandBuilder) runTemplates(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()

	searcher, searcherError := builder.resolveSearcher(logger, configuration)
	if searcherError != nil {
		return searcherError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:     logger,
		Searcher:   searcher,
		Fields:     configuration.FieldConfiguration(),
		MaxResults: configuration.MaxResults,
	})
	if serviceError != nil {
		return serviceError
	}

	if len(arguments) == 1 {
		return builder.showTemplate(command, service, strings.TrimSpace(arguments[0]))
	}

	templateEpics, listError := service.ListTemplates(command.Context(), configuration.SourceProjectKey)
	if listError != nil {
		return listError
	}

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, templateListHeaderTemplate, configuration.SourceProjectKey)
	for _, templateEpic := range templateEpics {
		fmt.Fprintf(outputWriter, templateListRowTemplateConstant, templateEpic.Key, templateEpic.Summary)
	}
	return nil
}

func (builder *CommandBuilder) showTemplate(command *cobra.Command, service *Service, epicKey string) error {
	template, templateError := service.Template(command.Context(), epicKey)
	if templateError != nil {
		return templateError
	}

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, templateDetailHeaderTemplate, template.Epic.Key, template.Epic.Summary)
	if len(template.Description) > 0 {
		fmt.Fprint(outputWriter, template.Description)
		fmt.Fprint(outputWriter, descriptionSeparatorConstant)
	}
	for _, child := range template.Children {
		writeChildRow(outputWriter, child)
	}
	return nil
}

func writeChildRow(outputWriter io.Writer, child jira.Issue) {
	fmt.Fprintf(
		outputWriter,
		templateChildRowTemplateConstant,
		child.Key,
		child.TypeName,
		formatDate(child.StartDate),
		formatDate(child.DueDate),
		child.Summary,
	)
}

func formatDate(value *time.Time) string {
	if value == nil {
		return absentDateConstant
	}
	return value.Format(dateLayoutConstant)
}

func (builder *CommandBuilder) resolveConfiguration() migration.CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return migration.DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveSearcher(logger *zap.Logger, configuration migration.CommandConfiguration) (IssueSearcher, error) {
	if builder.SearcherProvider != nil {
		return builder.SearcherProvider(logger, configuration.FieldConfiguration())
	}

	configuredCredentials := jira.Credentials{}
	if builder.CredentialsProvider != nil {
		configuredCredentials = builder.CredentialsProvider()
	}

	credentials, credentialsError := jira.ResolveCredentials(configuredCredentials)
	if credentialsError != nil {
		return nil, credentialsError
	}

	return jira.NewClient(credentials, configuration.FieldConfiguration(), logger)
}
