package migration

import (
	"fmt"
	"time"
)

// RunState tracks the executor's progress through one migration run.
type RunState string

// Run states. Failed is absorbing: a failed run cannot be retried or resumed
// and must be restarted from scratch by the operator.
const (
	RunStateNotStarted       RunState = RunState("not_started")
	RunStateCreatingEpic     RunState = RunState("creating_epic")
	RunStateCreatingChildren RunState = RunState("creating_children")
	RunStateCreatingLinks    RunState = RunState("creating_links")
	RunStateSucceeded        RunState = RunState("succeeded")
	RunStateFailed           RunState = RunState("failed")
)

// KeyMap records, per run, which destination key each source issue key was
// created as. It is built incrementally while children are created and is
// discarded when the run ends.
type KeyMap map[string]string

// MigrationOptions configures one migration run.
type MigrationOptions struct {
	SourceEpicKey    string
	TargetProjectKey string
	NewStartDate     time.Time
}

// CreatedLink describes one link recreated between destination issues.
type CreatedLink struct {
	TypeName   string
	InwardKey  string
	OutwardKey string
}

// MigrationResult captures the observable outcome of one run.
type MigrationResult struct {
	State         RunState
	EpicKey       string
	NewEpicKey    string
	CreatedIssues KeyMap
	CreatedLinks  []CreatedLink
	SkippedLinks  int
}

const unsupportedIssueTypeTemplateConstant = "issue type %q is not configured in target project %s"

// UnsupportedIssueTypeError reports a child whose issue-type name has no
// exact match among the target project's configured types. It aborts the run:
// once one type cannot be mapped, the remaining creates can no longer
// guarantee the type integrity of the template.
type UnsupportedIssueTypeError struct {
	TypeName         string
	TargetProjectKey string
}

// Error names the unmapped type and the target project.
func (typeError UnsupportedIssueTypeError) Error() string {
	return fmt.Sprintf(unsupportedIssueTypeTemplateConstant, typeError.TypeName, typeError.TargetProjectKey)
}
