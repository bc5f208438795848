package jira_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
)

func TestAuthCommandReportsSuccessfulProbe(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/rest/api/3/myself", request.URL.Path)
		responseWriter.Write([]byte(`{"displayName":"Operator"}`))
	}))
	defer server.Close()

	builder := jira.AuthCommandBuilder{
		LoggerProvider:      func() *zap.Logger { return zap.NewNop() },
		CredentialsProvider: func() jira.Credentials { return testCredentials(server.URL) },
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, outputBuffer.String(), "operator@example.com")
}

func TestAuthCommandReportsRejectedCredentials(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, _ *http.Request) {
		responseWriter.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	builder := jira.AuthCommandBuilder{
		CredentialsProvider: func() jira.Credentials { return testCredentials(server.URL) },
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	executionError := command.Execute()
	require.Error(testInstance, executionError)

	var authenticationError jira.AuthenticationError
	require.ErrorAs(testInstance, executionError, &authenticationError)
}
