// Package jira implements the issue-repository collaborator used by the
// migration workflow: a sequential REST client that lists projects, searches
// issues through JQL, fetches single issues, and creates issues and typed
// issue links. Wire records are normalized into one internal Issue
// representation at fetch time so downstream code never touches raw response
// shapes.
package jira
