package templates

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/adf"
	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/migration"
)

const (
	searcherMissingMessageConstant     = "issue searcher not configured"
	templateListErrorTemplateConstant  = "unable to list template epics in %s: %w"
	templateFetchErrorTemplateConstant = "unable to fetch template epic %s: %w"
	childrenFetchErrorTemplateConstant = "unable to fetch children of %s: %w"
	logMessageTemplatesListedConstant  = "Template epics listed"
	logFieldSourceProjectConstant      = "source_project"
	logFieldTemplateCountConstant      = "template_count"
)

// IssueSearcher is the collaborator through which the catalog reads issues.
type IssueSearcher interface {
	Issue(executionContext context.Context, issueKey string) (jira.Issue, error)
	SearchIssues(executionContext context.Context, request jira.SearchRequest) ([]jira.Issue, error)
}

// Template is one template Epic with its rendered description and the
// children in schedule order.
type Template struct {
	Epic        jira.Issue
	Description string
	Children    []jira.Issue
}

// ServiceDependencies describes required collaborators for the catalog.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Searcher   IssueSearcher
	Fields     jira.FieldConfiguration
	MaxResults int
}

// Service reads template Epics from the configured source project.
type Service struct {
	logger     *zap.Logger
	searcher   IssueSearcher
	fields     jira.FieldConfiguration
	maxResults int
}

var errSearcherMissing = errors.New(searcherMissingMessageConstant)

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Searcher == nil {
		return nil, errSearcherMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &Service{
		logger:     logger,
		searcher:   dependencies.Searcher,
		fields:     dependencies.Fields.Sanitize(),
		maxResults: dependencies.MaxResults,
	}

	return service, nil
}

// ListTemplates returns the template Epics of the source project, newest
// first.
func (service *Service) ListTemplates(executionContext context.Context, sourceProjectKey string) ([]jira.Issue, error) {
	templateEpics, searchError := service.searcher.SearchIssues(executionContext, jira.SearchRequest{
		JQL:        jira.TemplateEpicsJQL(sourceProjectKey),
		Fields:     service.fields.TemplateFieldSet(),
		MaxResults: service.maxResults,
	})
	if searchError != nil {
		return nil, fmt.Errorf(templateListErrorTemplateConstant, sourceProjectKey, searchError)
	}

	service.logger.Debug(
		logMessageTemplatesListedConstant,
		zap.String(logFieldSourceProjectConstant, sourceProjectKey),
		zap.Int(logFieldTemplateCountConstant, len(templateEpics)),
	)

	return templateEpics, nil
}

// Template resolves one template Epic with its rendered description and the
// children ordered by start date.
func (service *Service) Template(executionContext context.Context, epicKey string) (Template, error) {
	epic, fetchError := service.searcher.Issue(executionContext, epicKey)
	if fetchError != nil {
		return Template{}, fmt.Errorf(templateFetchErrorTemplateConstant, epicKey, fetchError)
	}

	children, childrenError := service.searcher.SearchIssues(executionContext, jira.SearchRequest{
		JQL:        jira.ChildIssuesJQL(epicKey, service.fields.StartDateFieldID),
		Fields:     service.fields.ChildFieldSet(),
		MaxResults: service.maxResults,
	})
	if childrenError != nil {
		return Template{}, fmt.Errorf(childrenFetchErrorTemplateConstant, epicKey, childrenError)
	}

	return Template{
		Epic:        epic,
		Description: renderDescription(epic),
		Children:    migration.OrderChildren(children),
	}, nil
}

// renderDescription converts the Epic's rich-text description to plain text.
// Descriptions that are absent or fail to parse render empty.
func renderDescription(epic jira.Issue) string {
	if len(epic.Description) == 0 {
		return ""
	}

	document, parseError := adf.Parse(epic.Description)
	if parseError != nil {
		return ""
	}

	return adf.RenderText(document)
}
