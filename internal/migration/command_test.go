package migration_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/migration"
)

func TestRunCommandMigratesThroughProvidedRepository(testInstance *testing.T) {
	testInstance.Parallel()

	repository := &recordingIssueRepository{
		issues: map[string]jira.Issue{"PPT-1": templateEpic()},
		searchResults: []jira.Issue{
			{Key: "PPT-2", Summary: "Prepare environment", TypeName: "Task", StartDate: datePointer(2024, time.January, 3)},
		},
		projectDetails: targetProjectDetails(),
	}

	builder := migration.RunCommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		RepositoryProvider: func(*zap.Logger, jira.FieldConfiguration) (migration.IssueRepository, error) {
			return repository, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--epic", "PPT-1", "--project", "NP", "--start", "2024-02-01"})

	require.NoError(testInstance, command.Execute())
	require.Len(testInstance, repository.createdIssues, 2)
	require.Contains(testInstance, outputBuffer.String(), "NP-1")
}

func TestRunCommandRejectsMissingStartDate(testInstance *testing.T) {
	testInstance.Parallel()

	builder := migration.RunCommandBuilder{
		RepositoryProvider: func(*zap.Logger, jira.FieldConfiguration) (migration.IssueRepository, error) {
			return &recordingIssueRepository{}, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--epic", "PPT-1", "--project", "NP"})

	executionError := command.Execute()
	require.Error(testInstance, executionError)

	var inputError migration.InvalidInputError
	require.ErrorAs(testInstance, executionError, &inputError)
}

func TestRunCommandRejectsMalformedStartDate(testInstance *testing.T) {
	testInstance.Parallel()

	builder := migration.RunCommandBuilder{
		RepositoryProvider: func(*zap.Logger, jira.FieldConfiguration) (migration.IssueRepository, error) {
			return &recordingIssueRepository{}, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--epic", "PPT-1", "--project", "NP", "--start", "02/01/2024"})

	require.Error(testInstance, command.Execute())
}

func TestRunCommandLoadsManifestWithFlagOverride(testInstance *testing.T) {
	testInstance.Parallel()

	manifestPath := writeManifestFile(testInstance, "source_epic: PPT-1\ntarget_project: NP\nnew_start_date: \"2024-02-01\"\n")

	repository := &recordingIssueRepository{
		issues:         map[string]jira.Issue{"PPT-1": templateEpic()},
		projectDetails: targetProjectDetails(),
	}

	builder := migration.RunCommandBuilder{
		RepositoryProvider: func(*zap.Logger, jira.FieldConfiguration) (migration.IssueRepository, error) {
			return repository, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--manifest", manifestPath, "--start", "2024-03-01"})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, repository.createdIssues, 1)
	require.Equal(testInstance, datePointer(2024, time.March, 1), repository.createdIssues[0].StartDate)
}

func TestPreviewCommandPrintsScheduleWithoutCreatingIssues(testInstance *testing.T) {
	testInstance.Parallel()

	repository := &recordingIssueRepository{
		issues: map[string]jira.Issue{"PPT-1": templateEpic()},
		searchResults: []jira.Issue{
			{Key: "PPT-2", Summary: "Prepare environment", TypeName: "Task", StartDate: datePointer(2024, time.January, 3)},
		},
		projectDetails: targetProjectDetails(),
	}

	builder := migration.PreviewCommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		RepositoryProvider: func(*zap.Logger, jira.FieldConfiguration) (migration.IssueRepository, error) {
			return repository, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--epic", "PPT-1", "--project", "NP", "--start", "2024-02-01"})

	require.NoError(testInstance, command.Execute())

	require.Empty(testInstance, repository.createdIssues)
	require.Contains(testInstance, outputBuffer.String(), "PPT-1")
	require.Contains(testInstance, outputBuffer.String(), "PPT-2")
	require.Contains(testInstance, outputBuffer.String(), "2024-02-03")
}
