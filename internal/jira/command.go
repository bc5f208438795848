package jira

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	authCommandUseConstant              = "auth"
	authCommandShortDescriptionConstant = "Verify the configured Jira credentials"
	authCommandLongDescriptionConstant  = "auth probes the Jira instance with the configured credentials and reports whether they are accepted."
	authSuccessTemplateConstant         = "Authenticated against %s as %s\n"
	authProbeErrorTemplateConstant      = "credential check failed: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// AuthCommandBuilder assembles the auth Cobra command.
type AuthCommandBuilder struct {
	LoggerProvider      LoggerProvider
	CredentialsProvider func() Credentials
	ClientProvider      func(credentials Credentials, logger *zap.Logger) (*Client, error)
}

// Build constructs the auth command.
func (builder *AuthCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           authCommandUseConstant,
		Short:         authCommandShortDescriptionConstant,
		Long:          authCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runAuth,
	}

	return command, nil
}

func (builder *AuthCommandBuilder) runAuth(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()

	configuredCredentials := Credentials{}
	if builder.CredentialsProvider != nil {
		configuredCredentials = builder.CredentialsProvider()
	}

	credentials, credentialsError := ResolveCredentials(configuredCredentials)
	if credentialsError != nil {
		return credentialsError
	}

	client, clientError := builder.resolveClient(credentials, logger)
	if clientError != nil {
		return clientError
	}

	if probeError := client.Myself(command.Context()); probeError != nil {
		return fmt.Errorf(authProbeErrorTemplateConstant, probeError)
	}

	fmt.Fprintf(command.OutOrStdout(), authSuccessTemplateConstant, credentials.BaseURL, credentials.Email)
	return nil
}

func (builder *AuthCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *AuthCommandBuilder) resolveClient(credentials Credentials, logger *zap.Logger) (*Client, error) {
	if builder.ClientProvider != nil {
		return builder.ClientProvider(credentials, logger)
	}
	return NewClient(credentials, FieldConfiguration{}, logger)
}
