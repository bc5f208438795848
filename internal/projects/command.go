package projects

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/migration"
)

const (
	commandUseConstant              = "projects"
	commandShortDescriptionConstant = "List projects eligible to receive a migration"
	commandLongDescriptionConstant  = "projects lists the projects whose category matches the configured project category. These are the projects a template Epic can be migrated into."
	categoryFlagNameConstant        = "category"
	categoryFlagUsageConstant       = "Project category to filter by"
	projectListHeaderConstant       = "Eligible projects:\n"
	projectListRowTemplateConstant  = "%-12s  %s\n"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ListerProvider constructs the project lister used by the command.
type ListerProvider func(logger *zap.Logger) (ProjectLister, error)

// CommandBuilder assembles the projects Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() migration.CommandConfiguration
	CredentialsProvider   func() jira.Credentials
	ListerProvider        ListerProvider
}

// Build constructs the projects command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runProjects,
	}

	command.Flags().String(categoryFlagNameConstant, "", categoryFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runProjects(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()

	categoryName := configuration.ProjectCategory
	if command.Flags().Changed(categoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(categoryFlagNameConstant)
		categoryName = flagValue
	}

	lister, listerError := builder.resolveLister(logger, configuration)
	if listerError != nil {
		return listerError
	}

	service, serviceError := NewService(ServiceDependencies{Logger: logger, Lister: lister})
	if serviceError != nil {
		return serviceError
	}

	eligibleProjects, listError := service.ListEligibleProjects(command.Context(), categoryName)
	if listError != nil {
		return listError
	}

	outputWriter := command.OutOrStdout()
	fmt.Fprint(outputWriter, projectListHeaderConstant)
	for _, eligibleProject := range eligibleProjects {
		fmt.Fprintf(outputWriter, projectListRowTemplateConstant, eligibleProject.Key, eligibleProject.Name)
	}
	return nil
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

func (builder *CommandBuilder) resolveLister(logger *zap.Logger, configuration migration.CommandConfiguration) (ProjectLister, error) {
	if builder.ListerProvider != nil {
		return builder.ListerProvider(logger)
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
