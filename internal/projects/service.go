package projects

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
)

const (
	listerMissingMessageConstant     = "project lister not configured"
	projectListErrorTemplateConstant = "unable to list projects: %w"
	logMessageProjectsListedConstant = "Eligible projects listed"
	logFieldProjectCategoryConstant  = "project_category"
	logFieldProjectCountConstant     = "project_count"
)

// ProjectLister is the collaborator through which the service reads projects.
type ProjectLister interface {
	Projects(executionContext context.Context, categoryName string) ([]jira.Project, error)
}

// ServiceDependencies describes required collaborators for the service.
type ServiceDependencies struct {
	Logger *zap.Logger
	Lister ProjectLister
}

// Service lists the projects a migration may target.
type Service struct {
	logger *zap.Logger
	lister ProjectLister
}

var errListerMissing = errors.New(listerMissingMessageConstant)

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Lister == nil {
		return nil, errListerMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{logger: logger, lister: dependencies.Lister}, nil
}

// ListEligibleProjects returns the projects whose category matches the
// configured name. An empty category name disables the filter.
func (service *Service) ListEligibleProjects(executionContext context.Context, categoryName string) ([]jira.Project, error) {
	eligibleProjects, listError := service.lister.Projects(executionContext, categoryName)
	if listError != nil {
		return nil, fmt.Errorf(projectListErrorTemplateConstant, listError)
	}

	service.logger.Debug(
		logMessageProjectsListedConstant,
		zap.String(logFieldProjectCategoryConstant, categoryName),
		zap.Int(logFieldProjectCountConstant, len(eligibleProjects)),
	)

	return eligibleProjects, nil
}
