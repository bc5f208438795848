package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	myselfEndpointConstant                = "/rest/api/3/myself"
	projectListEndpointConstant           = "/rest/api/3/project"
	projectEndpointTemplateConstant       = "/rest/api/3/project/%s"
	searchEndpointConstant                = "/rest/api/3/search/jql"
	issueEndpointTemplateConstant         = "/rest/api/3/issue/%s"
	issueCreateEndpointConstant           = "/rest/api/3/issue"
	issueLinkEndpointConstant             = "/rest/api/3/issueLink"
	acceptHeaderNameConstant              = "Accept"
	contentTypeHeaderNameConstant         = "Content-Type"
	jsonContentTypeConstant               = "application/json"
	jqlQueryParameterConstant             = "jql"
	maxResultsQueryParameterConstant      = "maxResults"
	fieldsQueryParameterConstant          = "fields"
	fieldListSeparatorConstant            = ","
	calendarDateLayoutConstant            = "2006-01-02"
	defaultRequestTimeoutConstant         = 30 * time.Second
	requiredValueMessageConstant          = "value required"
	baseURLFieldNameConstant              = "base_url"
	emailFieldNameConstant                = "email"
	apiTokenFieldNameConstant             = "api_token"
	issueKeyFieldNameConstant             = "issue_key"
	projectKeyFieldNameConstant           = "project_key"
	linkTypeFieldNameConstant             = "link_type"
	jqlFieldNameConstant                  = "jql"
	summaryFieldConstant                  = "summary"
	descriptionFieldConstant              = "description"
	statusFieldConstant                   = "status"
	issueTypeFieldConstant                = "issuetype"
	dueDateFieldConstant                  = "duedate"
	issueLinksFieldConstant               = "issuelinks"
	projectFieldConstant                  = "project"
	keyFieldConstant                      = "key"
	idFieldConstant                       = "id"
	nameFieldConstant                     = "name"
	createdIssueKeyMissingMessageConstant = "created issue response carried no key"
	logMessageRequestCompletedConstant    = "Tracker call completed"
	logFieldOperationConstant             = "operation"
	logFieldStatusCodeConstant            = "status_code"

	myselfOperationNameConstant          = OperationName("Myself")
	listProjectsOperationNameConstant    = OperationName("ListProjects")
	projectDetailsOperationNameConstant  = OperationName("ProjectDetails")
	searchIssuesOperationNameConstant    = OperationName("SearchIssues")
	fetchIssueOperationNameConstant      = OperationName("FetchIssue")
	createIssueOperationNameConstant     = OperationName("CreateIssue")
	createIssueLinkOperationNameConstant = OperationName("CreateIssueLink")
)

// dateFieldLayouts are tried in order when normalizing wire date values. A
// value matching none of them is treated exactly like a missing one.
var dateFieldLayouts = []string{
	calendarDateLayoutConstant,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
}

// Client issues sequential REST calls against one tracker instance using
// basic authentication. Every call blocks until the response arrives; the
// client performs no batching and no concurrent fan-out.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	fields     FieldConfiguration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient validates credentials and constructs a Client.
func NewClient(credentials Credentials, fields FieldConfiguration, logger *zap.Logger) (*Client, error) {
	if len(strings.TrimSpace(credentials.BaseURL)) == 0 {
		return nil, InvalidInputError{FieldName: baseURLFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(credentials.Email)) == 0 {
		return nil, InvalidInputError{FieldName: emailFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(credentials.APIToken)) == 0 {
		return nil, InvalidInputError{FieldName: apiTokenFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(credentials.BaseURL), "/"),
		email:      strings.TrimSpace(credentials.Email),
		apiToken:   strings.TrimSpace(credentials.APIToken),
		fields:     fields.Sanitize(),
		httpClient: &http.Client{Timeout: defaultRequestTimeoutConstant},
		logger:     logger,
	}

	return client, nil
}

// Myself probes the authenticated identity endpoint to validate credentials.
func (client *Client) Myself(executionContext context.Context) error {
	_, callError := client.call(executionContext, myselfOperationNameConstant, http.MethodGet, myselfEndpointConstant, nil, nil)
	return callError
}

// Projects lists visible projects, keeping only those whose category name
// equals categoryName when a non-empty filter is provided.
func (client *Client) Projects(executionContext context.Context, categoryName string) ([]Project, error) {
	responseBody, callError := client.call(executionContext, listProjectsOperationNameConstant, http.MethodGet, projectListEndpointConstant, nil, nil)
	if callError != nil {
		return nil, callError
	}

	var projectRecords []projectRecordPayload
	if decodeError := json.Unmarshal(responseBody, &projectRecords); decodeError != nil {
		return nil, ResponseDecodingError{Operation: listProjectsOperationNameConstant, Cause: decodeError}
	}

	projects := make([]Project, 0, len(projectRecords))
	for _, record := range projectRecords {
		project := Project{Key: record.Key, Name: record.Name}
		if record.ProjectCategory != nil {
			project.Category = record.ProjectCategory.Name
		}
		if len(categoryName) > 0 && project.Category != categoryName {
			continue
		}
		projects = append(projects, project)
	}

	return projects, nil
}

// Project fetches project metadata including its allowed issue types.
func (client *Client) Project(executionContext context.Context, projectKey string) (ProjectDetails, error) {
	if len(strings.TrimSpace(projectKey)) == 0 {
		return ProjectDetails{}, InvalidInputError{FieldName: projectKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}

	endpoint := fmt.Sprintf(projectEndpointTemplateConstant, url.PathEscape(projectKey))
	responseBody, callError := client.call(executionContext, projectDetailsOperationNameConstant, http.MethodGet, endpoint, nil, nil)
	if callError != nil {
		return ProjectDetails{}, callError
	}

	var record projectDetailsPayload
	if decodeError := json.Unmarshal(responseBody, &record); decodeError != nil {
		return ProjectDetails{}, ResponseDecodingError{Operation: projectDetailsOperationNameConstant, Cause: decodeError}
	}

	details := ProjectDetails{Key: record.Key, Name: record.Name, IssueTypes: make([]IssueType, 0, len(record.IssueTypes))}
	for _, issueTypeRecord := range record.IssueTypes {
		details.IssueTypes = append(details.IssueTypes, IssueType{ID: issueTypeRecord.ID, Name: issueTypeRecord.Name})
	}

	return details, nil
}

// SearchIssues runs one JQL query and normalizes every returned record.
func (client *Client) SearchIssues(executionContext context.Context, request SearchRequest) ([]Issue, error) {
	if len(strings.TrimSpace(request.JQL)) == 0 {
		return nil, InvalidInputError{FieldName: jqlFieldNameConstant, Message: requiredValueMessageConstant}
	}

	queryParameters := url.Values{}
	queryParameters.Set(jqlQueryParameterConstant, request.JQL)
	if request.MaxResults > 0 {
		queryParameters.Set(maxResultsQueryParameterConstant, strconv.Itoa(request.MaxResults))
	}
	if len(request.Fields) > 0 {
		queryParameters.Set(fieldsQueryParameterConstant, strings.Join(request.Fields, fieldListSeparatorConstant))
	}

	responseBody, callError := client.call(executionContext, searchIssuesOperationNameConstant, http.MethodGet, searchEndpointConstant, queryParameters, nil)
	if callError != nil {
		return nil, callError
	}

	var searchResponse searchResponsePayload
	if decodeError := json.Unmarshal(responseBody, &searchResponse); decodeError != nil {
		return nil, ResponseDecodingError{Operation: searchIssuesOperationNameConstant, Cause: decodeError}
	}

	issues := make([]Issue, 0, len(searchResponse.Issues))
	for _, record := range searchResponse.Issues {
		issues = append(issues, client.normalizeIssueRecord(record))
	}

	return issues, nil
}

// Issue fetches a single issue by key with its full field set.
func (client *Client) Issue(executionContext context.Context, issueKey string) (Issue, error) {
	if len(strings.TrimSpace(issueKey)) == 0 {
		return Issue{}, InvalidInputError{FieldName: issueKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}

	endpoint := fmt.Sprintf(issueEndpointTemplateConstant, url.PathEscape(issueKey))
	responseBody, callError := client.call(executionContext, fetchIssueOperationNameConstant, http.MethodGet, endpoint, nil, nil)
	if callError != nil {
		return Issue{}, callError
	}

	var record issueRecordPayload
	if decodeError := json.Unmarshal(responseBody, &record); decodeError != nil {
		return Issue{}, ResponseDecodingError{Operation: fetchIssueOperationNameConstant, Cause: decodeError}
	}

	return client.normalizeIssueRecord(record), nil
}

// CreateIssue creates one issue from the provided field payload and returns
// the key assigned by the tracker.
func (client *Client) CreateIssue(executionContext context.Context, createFields IssueCreateFields) (string, error) {
	if len(strings.TrimSpace(createFields.ProjectKey)) == 0 {
		return "", InvalidInputError{FieldName: projectKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}

	fieldPayload := map[string]any{
		projectFieldConstant: map[string]string{keyFieldConstant: createFields.ProjectKey},
		summaryFieldConstant: createFields.Summary,
	}
	if len(createFields.Description) > 0 {
		fieldPayload[descriptionFieldConstant] = json.RawMessage(createFields.Description)
	}
	switch {
	case len(createFields.IssueTypeID) > 0:
		fieldPayload[issueTypeFieldConstant] = map[string]string{idFieldConstant: createFields.IssueTypeID}
	case len(createFields.IssueTypeName) > 0:
		fieldPayload[issueTypeFieldConstant] = map[string]string{nameFieldConstant: createFields.IssueTypeName}
	}
	if len(createFields.EpicLinkKey) > 0 {
		fieldPayload[client.fields.EpicLinkFieldID] = createFields.EpicLinkKey
	}
	if createFields.StartDate != nil {
		fieldPayload[client.fields.StartDateFieldID] = createFields.StartDate.Format(calendarDateLayoutConstant)
	}
	if createFields.DueDate != nil {
		fieldPayload[dueDateFieldConstant] = createFields.DueDate.Format(calendarDateLayoutConstant)
	}

	requestBody := map[string]any{"fields": fieldPayload}
	responseBody, callError := client.call(executionContext, createIssueOperationNameConstant, http.MethodPost, issueCreateEndpointConstant, nil, requestBody)
	if callError != nil {
		return "", callError
	}

	var createdIssue createdIssuePayload
	if decodeError := json.Unmarshal(responseBody, &createdIssue); decodeError != nil {
		return "", ResponseDecodingError{Operation: createIssueOperationNameConstant, Cause: decodeError}
	}
	if len(createdIssue.Key) == 0 {
		return "", OperationError{Operation: createIssueOperationNameConstant, Cause: errors.New(createdIssueKeyMissingMessageConstant)}
	}

	return createdIssue.Key, nil
}

// CreateIssueLink creates one typed link between two issue keys with explicit
// inward and outward endpoints.
func (client *Client) CreateIssueLink(executionContext context.Context, linkTypeName string, inwardKey string, outwardKey string) error {
	if len(strings.TrimSpace(linkTypeName)) == 0 {
		return InvalidInputError{FieldName: linkTypeFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(inwardKey)) == 0 || len(strings.TrimSpace(outwardKey)) == 0 {
		return InvalidInputError{FieldName: issueKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}

	requestBody := map[string]any{
		"type":         map[string]string{nameFieldConstant: linkTypeName},
		"inwardIssue":  map[string]string{keyFieldConstant: inwardKey},
		"outwardIssue": map[string]string{keyFieldConstant: outwardKey},
	}

	_, callError := client.call(executionContext, createIssueLinkOperationNameConstant, http.MethodPost, issueLinkEndpointConstant, nil, requestBody)
	return callError
}

func (client *Client) call(executionContext context.Context, operation OperationName, method string, endpoint string, queryParameters url.Values, requestBody any) ([]byte, error) {
	requestURL := client.baseURL + endpoint
	if len(queryParameters) > 0 {
		requestURL = requestURL + "?" + queryParameters.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encodedBody, encodeError := json.Marshal(requestBody)
		if encodeError != nil {
			return nil, OperationError{Operation: operation, Cause: encodeError}
		}
		bodyReader = bytes.NewReader(encodedBody)
	}

	request, requestError := http.NewRequestWithContext(executionContext, method, requestURL, bodyReader)
	if requestError != nil {
		return nil, OperationError{Operation: operation, Cause: requestError}
	}

	request.SetBasicAuth(client.email, client.apiToken)
	request.Header.Set(acceptHeaderNameConstant, jsonContentTypeConstant)
	if requestBody != nil {
		request.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeConstant)
	}

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return nil, OperationError{Operation: operation, Cause: responseError}
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, OperationError{Operation: operation, Cause: readError}
	}

	client.logger.Debug(
		logMessageRequestCompletedConstant,
		zap.String(logFieldOperationConstant, string(operation)),
		zap.Int(logFieldStatusCodeConstant, response.StatusCode),
	)

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		return nil, AuthenticationError{StatusCode: response.StatusCode, Body: string(responseBody)}
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, StatusError{Operation: operation, StatusCode: response.StatusCode, Body: string(responseBody)}
	}

	return responseBody, nil
}

type projectCategoryPayload struct {
	Name string `json:"name"`
}

type projectRecordPayload struct {
	Key             string                  `json:"key"`
	Name            string                  `json:"name"`
	ProjectCategory *projectCategoryPayload `json:"projectCategory"`
}

type issueTypeRecordPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type projectDetailsPayload struct {
	Key        string                   `json:"key"`
	Name       string                   `json:"name"`
	IssueTypes []issueTypeRecordPayload `json:"issueTypes"`
}

type issueRecordPayload struct {
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type searchResponsePayload struct {
	Issues []issueRecordPayload `json:"issues"`
}

type createdIssuePayload struct {
	Key string `json:"key"`
}

type namedEntityPayload struct {
	Name string `json:"name"`
}

type linkedIssuePayload struct {
	Key string `json:"key"`
}

type issueLinkRecordPayload struct {
	Type         namedEntityPayload  `json:"type"`
	OutwardIssue *linkedIssuePayload `json:"outwardIssue"`
	InwardIssue  *linkedIssuePayload `json:"inwardIssue"`
}

// normalizeIssueRecord is the single mapping step from wire shape to the
// internal Issue representation. Dynamic field access happens here and only
// here.
func (client *Client) normalizeIssueRecord(record issueRecordPayload) Issue {
	issue := Issue{Key: record.Key}

	issue.Summary = decodeStringField(record.Fields, summaryFieldConstant)
	issue.Status = decodeNamedField(record.Fields, statusFieldConstant)
	issue.TypeName = decodeNamedField(record.Fields, issueTypeFieldConstant)

	if rawDescription, descriptionPresent := record.Fields[descriptionFieldConstant]; descriptionPresent && !rawValueIsNull(rawDescription) {
		issue.Description = append(json.RawMessage(nil), rawDescription...)
	}

	issue.StartDate = parseCalendarDate(decodeStringField(record.Fields, client.fields.StartDateFieldID))
	issue.DueDate = parseCalendarDate(decodeStringField(record.Fields, dueDateFieldConstant))

	if rawLinks, linksPresent := record.Fields[issueLinksFieldConstant]; linksPresent {
		var linkRecords []issueLinkRecordPayload
		if decodeError := json.Unmarshal(rawLinks, &linkRecords); decodeError == nil {
			for _, linkRecord := range linkRecords {
				switch {
				case linkRecord.OutwardIssue != nil:
					issue.Links = append(issue.Links, Link{TypeName: linkRecord.Type.Name, Direction: LinkDirectionOutward, TargetKey: linkRecord.OutwardIssue.Key})
				case linkRecord.InwardIssue != nil:
					issue.Links = append(issue.Links, Link{TypeName: linkRecord.Type.Name, Direction: LinkDirectionInward, TargetKey: linkRecord.InwardIssue.Key})
				}
			}
		}
	}

	return issue
}

func decodeStringField(fields map[string]json.RawMessage, fieldName string) string {
	rawValue, valuePresent := fields[fieldName]
	if !valuePresent {
		return ""
	}
	var stringValue string
	if decodeError := json.Unmarshal(rawValue, &stringValue); decodeError != nil {
		return ""
	}
	return stringValue
}

func decodeNamedField(fields map[string]json.RawMessage, fieldName string) string {
	rawValue, valuePresent := fields[fieldName]
	if !valuePresent {
		return ""
	}
	var namedEntity namedEntityPayload
	if decodeError := json.Unmarshal(rawValue, &namedEntity); decodeError != nil {
		return ""
	}
	return namedEntity.Name
}

func rawValueIsNull(rawValue json.RawMessage) bool {
	return len(bytes.TrimSpace(rawValue)) == 0 || bytes.Equal(bytes.TrimSpace(rawValue), []byte("null"))
}

// parseCalendarDate normalizes a wire date value. Missing and malformed
// values both yield nil; there is no partial-parse tolerance.
func parseCalendarDate(value string) *time.Time {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return nil
	}

	for _, layout := range dateFieldLayouts {
		if parsedDate, parseError := time.Parse(layout, trimmedValue); parseError == nil {
			return &parsedDate
		}
	}

	return nil
}
