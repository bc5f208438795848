package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/epicops/epicmigrate/internal/jira"
)

const (
	epicIssueTypeNameConstant            = "Epic"
	sourceEpicKeyFieldNameConstant       = "source_epic_key"
	targetProjectKeyFieldNameConstant    = "target_project_key"
	requiredValueMessageConstant         = "value required"
	repositoryMissingMessageConstant     = "issue repository not configured"
	epicFetchErrorTemplateConstant       = "unable to fetch source epic %s: %w"
	childrenFetchErrorTemplateConstant   = "unable to fetch children of %s: %w"
	projectFetchErrorTemplateConstant    = "unable to fetch target project %s: %w"
	epicCreateErrorTemplateConstant      = "unable to create destination epic: %w"
	childCreateErrorTemplateConstant     = "unable to create destination issue for %s: %w"
	linkCreateErrorTemplateConstant      = "unable to recreate %s link between %s and %s: %w"
	logMessageEpicCreatedConstant        = "Destination epic created"
	logMessageChildCreatedConstant       = "Child issue migrated"
	logMessageLinkCreatedConstant        = "Issue link recreated"
	logMessageLinkSkippedConstant        = "Link target outside migrated set; skipping"
	logMessageMigrationCompletedConstant = "Migration completed"
	logFieldSourceEpicConstant           = "source_epic"
	logFieldNewEpicConstant              = "new_epic"
	logFieldSourceKeyConstant            = "source_key"
	logFieldNewKeyConstant               = "new_key"
	logFieldLinkTypeConstant             = "link_type"
	logFieldLinkTargetConstant           = "link_target"
	logFieldChildCountConstant           = "child_count"
	logFieldLinkCountConstant            = "link_count"
	logFieldSkippedLinkCountConstant     = "skipped_link_count"
	logFieldDeltaDaysConstant            = "delta_days"
	defaultMaxSearchResultsConstant      = 200
)

// IssueRepository is the collaborator through which the executor reads the
// source tree and creates destination issues and links. Calls are issued
// strictly sequentially; the executor never fans out.
type IssueRepository interface {
	Issue(executionContext context.Context, issueKey string) (jira.Issue, error)
	SearchIssues(executionContext context.Context, request jira.SearchRequest) ([]jira.Issue, error)
	Project(executionContext context.Context, projectKey string) (jira.ProjectDetails, error)
	CreateIssue(executionContext context.Context, createFields jira.IssueCreateFields) (string, error)
	CreateIssueLink(executionContext context.Context, linkTypeName string, inwardKey string, outwardKey string) error
}

// InvalidInputError describes migration option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

// ServiceDependencies describes required collaborators for the executor.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Repository IssueRepository
	Fields     jira.FieldConfiguration
	MaxResults int
}

// Service drives one migration run: destination Epic, then each child in
// schedule order, then the reconstructed links. There is no retry, no
// resumption, and no rollback of issues created before a failure.
type Service struct {
	logger     *zap.Logger
	repository IssueRepository
	fields     jira.FieldConfiguration
	remapper   TemporalRemapper
	maxResults int
}

var errRepositoryMissing = errors.New(repositoryMissingMessageConstant)

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Repository == nil {
		return nil, errRepositoryMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxResults := dependencies.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxSearchResultsConstant
	}

	service := &Service{
		logger:     logger,
		repository: dependencies.Repository,
		fields:     dependencies.Fields.Sanitize(),
		remapper:   NewTemporalRemapper(),
		maxResults: maxResults,
	}

	return service, nil
}

// Execute performs the migration run. Any failure is terminal for the whole
// run: the returned result reports the failed state alongside whatever was
// already created, and the single returned error carries the underlying
// reason.
func (service *Service) Execute(executionContext context.Context, options MigrationOptions) (MigrationResult, error) {
	result := MigrationResult{State: RunStateNotStarted, EpicKey: options.SourceEpicKey, CreatedIssues: KeyMap{}}

	if validationError := service.validateOptions(options); validationError != nil {
		result.State = RunStateFailed
		return result, validationError
	}

	result.State = RunStateCreatingEpic

	epic, epicFetchError := service.repository.Issue(executionContext, options.SourceEpicKey)
	if epicFetchError != nil {
		result.State = RunStateFailed
		return result, fmt.Errorf(epicFetchErrorTemplateConstant, options.SourceEpicKey, epicFetchError)
	}

	children, childrenFetchError := service.fetchChildren(executionContext, options.SourceEpicKey)
	if childrenFetchError != nil {
		result.State = RunStateFailed
		return result, fmt.Errorf(childrenFetchErrorTemplateConstant, options.SourceEpicKey, childrenFetchError)
	}
	orderedChildren := OrderChildren(children)

	targetProject, projectFetchError := service.repository.Project(executionContext, options.TargetProjectKey)
	if projectFetchError != nil {
		result.State = RunStateFailed
		return result, fmt.Errorf(projectFetchErrorTemplateConstant, options.TargetProjectKey, projectFetchError)
	}

	deltaDays := service.remapper.Delta(epic.StartDate, options.NewStartDate)
	epicSchedule := service.remapper.RemapEpic(Schedule{StartDate: epic.StartDate, DueDate: epic.DueDate}, options.NewStartDate)

	newEpicKey, epicCreateError := service.repository.CreateIssue(executionContext, jira.IssueCreateFields{
		ProjectKey:    options.TargetProjectKey,
		Summary:       epic.Summary,
		Description:   epic.Description,
		IssueTypeName: epicIssueTypeNameConstant,
		StartDate:     epicSchedule.StartDate,
		DueDate:       epicSchedule.DueDate,
	})
	if epicCreateError != nil {
		result.State = RunStateFailed
		return result, fmt.Errorf(epicCreateErrorTemplateConstant, epicCreateError)
	}
	result.NewEpicKey = newEpicKey

	service.logger.Info(
		logMessageEpicCreatedConstant,
		zap.String(logFieldSourceEpicConstant, epic.Key),
		zap.String(logFieldNewEpicConstant, newEpicKey),
		zap.Int(logFieldDeltaDaysConstant, deltaDays),
		zap.Int(logFieldChildCountConstant, len(orderedChildren)),
	)

	result.State = RunStateCreatingChildren

	issueTypeIndex := buildIssueTypeIndex(targetProject)

	for _, child := range orderedChildren {
		issueTypeID, typeSupported := issueTypeIndex[child.TypeName]
		if !typeSupported {
			result.State = RunStateFailed
			return result, UnsupportedIssueTypeError{TypeName: child.TypeName, TargetProjectKey: options.TargetProjectKey}
		}

		childSchedule := service.remapper.RemapChild(Schedule{StartDate: child.StartDate, DueDate: child.DueDate}, deltaDays)

		newChildKey, childCreateError := service.repository.CreateIssue(executionContext, jira.IssueCreateFields{
			ProjectKey:  options.TargetProjectKey,
			Summary:     child.Summary,
			Description: child.Description,
			IssueTypeID: issueTypeID,
			EpicLinkKey: newEpicKey,
			StartDate:   childSchedule.StartDate,
			DueDate:     childSchedule.DueDate,
		})
		if childCreateError != nil {
			result.State = RunStateFailed
			return result, fmt.Errorf(childCreateErrorTemplateConstant, child.Key, childCreateError)
		}

		result.CreatedIssues[child.Key] = newChildKey

		service.logger.Info(
			logMessageChildCreatedConstant,
			zap.String(logFieldSourceKeyConstant, child.Key),
			zap.String(logFieldNewKeyConstant, newChildKey),
		)
	}

	result.State = RunStateCreatingLinks

	for _, child := range orderedChildren {
		newSourceKey := result.CreatedIssues[child.Key]

		for _, link := range child.Links {
			newTargetKey, targetMigrated := result.CreatedIssues[link.TargetKey]
			if !targetMigrated {
				result.SkippedLinks++
				service.logger.Debug(
					logMessageLinkSkippedConstant,
					zap.String(logFieldSourceKeyConstant, child.Key),
					zap.String(logFieldLinkTargetConstant, link.TargetKey),
					zap.String(logFieldLinkTypeConstant, link.TypeName),
				)
				continue
			}

			createdLink := remapLink(link, newSourceKey, newTargetKey)
			linkCreateError := service.repository.CreateIssueLink(executionContext, createdLink.TypeName, createdLink.InwardKey, createdLink.OutwardKey)
			if linkCreateError != nil {
				result.State = RunStateFailed
				return result, fmt.Errorf(linkCreateErrorTemplateConstant, link.TypeName, newSourceKey, newTargetKey, linkCreateError)
			}

			result.CreatedLinks = append(result.CreatedLinks, createdLink)

			service.logger.Info(
				logMessageLinkCreatedConstant,
				zap.String(logFieldLinkTypeConstant, createdLink.TypeName),
				zap.String(logFieldSourceKeyConstant, createdLink.InwardKey),
				zap.String(logFieldLinkTargetConstant, createdLink.OutwardKey),
			)
		}
	}

	result.State = RunStateSucceeded

	service.logger.Info(
		logMessageMigrationCompletedConstant,
		zap.String(logFieldSourceEpicConstant, epic.Key),
		zap.String(logFieldNewEpicConstant, newEpicKey),
		zap.Int(logFieldChildCountConstant, len(result.CreatedIssues)),
		zap.Int(logFieldLinkCountConstant, len(result.CreatedLinks)),
		zap.Int(logFieldSkippedLinkCountConstant, result.SkippedLinks),
	)

	return result, nil
}

func (service *Service) validateOptions(options MigrationOptions) error {
	if len(strings.TrimSpace(options.SourceEpicKey)) == 0 {
		return InvalidInputError{FieldName: sourceEpicKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.TargetProjectKey)) == 0 {
		return InvalidInputError{FieldName: targetProjectKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

func (service *Service) fetchChildren(executionContext context.Context, epicKey string) ([]jira.Issue, error) {
	return service.repository.SearchIssues(executionContext, jira.SearchRequest{
		JQL:        jira.ChildIssuesJQL(epicKey, service.fields.StartDateFieldID),
		Fields:     service.fields.ChildFieldSet(),
		MaxResults: service.maxResults,
	})
}

// buildIssueTypeIndex maps type names to identifiers for the target project.
// Matching is case-sensitive and exact.
func buildIssueTypeIndex(project jira.ProjectDetails) map[string]string {
	index := make(map[string]string, len(project.IssueTypes))
	for _, issueType := range project.IssueTypes {
		index[issueType.Name] = issueType.ID
	}
	return index
}

// remapLink reproduces the original link directionality between the two
// destination keys: the migrated issue keeps the same endpoint role it had in
// the source.
func remapLink(link jira.Link, newSourceKey string, newTargetKey string) CreatedLink {
	if link.Direction == jira.LinkDirectionOutward {
		return CreatedLink{TypeName: link.TypeName, InwardKey: newSourceKey, OutwardKey: newTargetKey}
	}
	return CreatedLink{TypeName: link.TypeName, InwardKey: newTargetKey, OutwardKey: newSourceKey}
}
