package jira

import (
	"fmt"
	"strings"
)

const (
	templateEpicsJQLTemplateConstant = "project = %s AND issuetype = Epic ORDER BY created DESC"
	childIssuesJQLTemplateConstant   = `"parent" = %s ORDER BY cf[%s] ASC`
	customFieldIDPrefixConstant      = "customfield_"
)

// TemplateEpicsJQL builds the catalog query listing template Epics in the
// source project, newest first.
func TemplateEpicsJQL(sourceProjectKey string) string {
	return fmt.Sprintf(templateEpicsJQLTemplateConstant, sourceProjectKey)
}

// ChildIssuesJQL builds the query listing an Epic's children ordered by the
// start-date custom field ascending.
func ChildIssuesJQL(parentKey string, startDateFieldID string) string {
	return fmt.Sprintf(childIssuesJQLTemplateConstant, parentKey, customFieldNumericID(startDateFieldID))
}

// TemplateFieldSet names the fields requested when listing template Epics.
func (configuration FieldConfiguration) TemplateFieldSet() []string {
	sanitized := configuration.Sanitize()
	return []string{summaryFieldConstant, descriptionFieldConstant, statusFieldConstant, sanitized.StartDateFieldID}
}

// ChildFieldSet names the fields requested when listing an Epic's children.
func (configuration FieldConfiguration) ChildFieldSet() []string {
	sanitized := configuration.Sanitize()
	return []string{
		summaryFieldConstant,
		statusFieldConstant,
		descriptionFieldConstant,
		issueTypeFieldConstant,
		dueDateFieldConstant,
		issueLinksFieldConstant,
		sanitized.StartDateFieldID,
	}
}

func customFieldNumericID(fieldID string) string {
	trimmedFieldID := strings.TrimSpace(fieldID)
	if numericID, found := strings.CutPrefix(trimmedFieldID, customFieldIDPrefixConstant); found {
		return numericID
	}
	return trimmedFieldID
}
