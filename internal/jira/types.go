package jira

import (
	"encoding/json"
	"strings"
	"time"
)

// Default custom field identifiers observed on Atlassian Cloud instances.
const (
	DefaultStartDateFieldID = "customfield_10015"
	DefaultEpicLinkFieldID  = "customfield_10014"
)

// LinkDirection describes which endpoint of a typed link an issue occupies.
type LinkDirection string

// Supported link directions.
const (
	LinkDirectionOutward LinkDirection = LinkDirection("outward")
	LinkDirectionInward  LinkDirection = LinkDirection("inward")
)

// Link is a directed, typed relation from one issue to another. Symmetric
// pairs appear as two opposite-direction records, one per endpoint.
type Link struct {
	TypeName  string
	Direction LinkDirection
	TargetKey string
}

// Issue is the normalized internal representation of a tracker work item.
// Instances are immutable once fetched within a migration run. Dates that are
// missing or unparsable on the wire normalize to nil.
type Issue struct {
	Key         string
	Summary     string
	Description json.RawMessage
	TypeName    string
	Status      string
	StartDate   *time.Time
	DueDate     *time.Time
	Links       []Link
}

// Project identifies a tracker project and its optional category label.
type Project struct {
	Key      string
	Name     string
	Category string
}

// IssueType pairs an issue-type name with its project-scoped identifier.
type IssueType struct {
	ID   string
	Name string
}

// ProjectDetails captures project metadata including its allowed issue types.
type ProjectDetails struct {
	Key        string
	Name       string
	IssueTypes []IssueType
}

// FieldConfiguration names the custom fields the client reads and writes.
type FieldConfiguration struct {
	StartDateFieldID string
	EpicLinkFieldID  string
}

// Sanitize fills unset identifiers with the default custom field ids.
func (configuration FieldConfiguration) Sanitize() FieldConfiguration {
	sanitized := configuration
	sanitized.StartDateFieldID = strings.TrimSpace(sanitized.StartDateFieldID)
	sanitized.EpicLinkFieldID = strings.TrimSpace(sanitized.EpicLinkFieldID)
	if len(sanitized.StartDateFieldID) == 0 {
		sanitized.StartDateFieldID = DefaultStartDateFieldID
	}
	if len(sanitized.EpicLinkFieldID) == 0 {
		sanitized.EpicLinkFieldID = DefaultEpicLinkFieldID
	}
	return sanitized
}

// SearchRequest describes one JQL search invocation.
type SearchRequest struct {
	JQL        string
	Fields     []string
	MaxResults int
}

// IssueCreateFields is the field payload for issue creation. The client maps
// optional dates and the epic link onto the configured custom fields; absent
// optional values are omitted from the request body entirely.
type IssueCreateFields struct {
	ProjectKey    string
	Summary       string
	Description   json.RawMessage
	IssueTypeID   string
	IssueTypeName string
	EpicLinkKey   string
	StartDate     *time.Time
	DueDate       *time.Time
}
