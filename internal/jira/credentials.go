package jira

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names consulted when resolving tracker credentials.
const (
	EnvJiraBaseURL  = "JIRA_URL"
	EnvJiraEmail    = "JIRA_EMAIL"
	EnvJiraAPIToken = "JIRA_API_TOKEN"
)

const (
	credentialBaseURLFieldNameConstant       = "base_url"
	credentialEmailFieldNameConstant         = "email"
	credentialAPITokenFieldNameConstant      = "api_token"
	missingCredentialMessageTemplateConstant = "missing credential %s; set it in configuration or via %s"
	baseURLTrailingSlashCutsetConstant       = "/"
)

var credentialEnvironmentNames = map[string]string{
	credentialBaseURLFieldNameConstant:  EnvJiraBaseURL,
	credentialEmailFieldNameConstant:    EnvJiraEmail,
	credentialAPITokenFieldNameConstant: EnvJiraAPIToken,
}

// Credentials authenticate against the tracker with basic auth.
type Credentials struct {
	BaseURL  string
	Email    string
	APIToken string
}

// MissingCredentialError reports an unresolvable credential field.
type MissingCredentialError struct {
	FieldName string
}

// Error describes the missing credential and where it can be provided.
func (credentialError MissingCredentialError) Error() string {
	return fmt.Sprintf(missingCredentialMessageTemplateConstant, credentialError.FieldName, credentialEnvironmentNames[credentialError.FieldName])
}

// ResolveCredentials fills unset credential fields from the process
// environment, loading a .env file first when one is present, and validates
// that every field resolved. Configured values take precedence over the
// environment.
func ResolveCredentials(configured Credentials) (Credentials, error) {
	_ = godotenv.Load()

	resolved := Credentials{
		BaseURL:  firstNonEmpty(configured.BaseURL, os.Getenv(EnvJiraBaseURL)),
		Email:    firstNonEmpty(configured.Email, os.Getenv(EnvJiraEmail)),
		APIToken: firstNonEmpty(configured.APIToken, os.Getenv(EnvJiraAPIToken)),
	}

	resolved.BaseURL = strings.TrimRight(resolved.BaseURL, baseURLTrailingSlashCutsetConstant)

	if len(resolved.BaseURL) == 0 {
		return Credentials{}, MissingCredentialError{FieldName: credentialBaseURLFieldNameConstant}
	}
	if len(resolved.Email) == 0 {
		return Credentials{}, MissingCredentialError{FieldName: credentialEmailFieldNameConstant}
	}
	if len(resolved.APIToken) == 0 {
		return Credentials{}, MissingCredentialError{FieldName: credentialAPITokenFieldNameConstant}
	}

	return resolved, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if len(trimmed) > 0 {
			return trimmed
		}
	}
	return ""
}
