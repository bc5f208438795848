package projects_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/projects"
)

type stubProjectLister struct {
	projects         []jira.Project
	listError        error
	observedCategory string
}

func (lister *stubProjectLister) Projects(_ context.Context, categoryName string) ([]jira.Project, error) {
	lister.observedCategory = categoryName
	if lister.listError != nil {
		return nil, lister.listError
	}
	return append([]jira.Project(nil), lister.projects...), nil
}

func TestNewServiceRequiresLister(testInstance *testing.T) {
	testInstance.Parallel()

	_, serviceError := projects.NewService(projects.ServiceDependencies{Logger: zap.NewNop()})
	require.Error(testInstance, serviceError)
}

func TestServiceListEligibleProjectsForwardsCategory(testInstance *testing.T) {
	testInstance.Parallel()

	lister := &stubProjectLister{
		projects: []jira.Project{
			{Key: "NP", Name: "New Production", Category: "Production"},
		},
	}

	service, serviceError := projects.NewService(projects.ServiceDependencies{Logger: zap.NewNop(), Lister: lister})
	require.NoError(testInstance, serviceError)

	eligibleProjects, listError := service.ListEligibleProjects(context.Background(), "Production")
	require.NoError(testInstance, listError)
	require.Len(testInstance, eligibleProjects, 1)
	require.Equal(testInstance, "Production", lister.observedCategory)
}

func TestServiceListEligibleProjectsPropagatesFailure(testInstance *testing.T) {
	testInstance.Parallel()

	lister := &stubProjectLister{listError: errors.New("listing rejected")}

	service, serviceError := projects.NewService(projects.ServiceDependencies{Logger: zap.NewNop(), Lister: lister})
	require.NoError(testInstance, serviceError)

	_, listError := service.ListEligibleProjects(context.Background(), "Production")
	require.Error(testInstance, listError)
}
