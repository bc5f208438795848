package migration

import (
	"time"

	"github.com/epicops/epicmigrate/internal/jira"
)

const epicPlaceholderDurationDaysConstant = 7

// ScheduleRow is one line of the migration preview: the issue as it exists in
// the source alongside the dates it would receive in the destination.
type ScheduleRow struct {
	SourceKey      string
	Summary        string
	TypeName       string
	NewStartDate   *time.Time
	NewDueDate     *time.Time
	PlaceholderDue bool
}

// SchedulePreview shows the full remapped schedule of a prospective run
// without creating anything.
type SchedulePreview struct {
	EpicRow   ScheduleRow
	ChildRows []ScheduleRow
	DeltaDays int
}

// BuildSchedulePreview computes the schedule a run with the given options
// would produce. An Epic with an original start date but no original due date
// gets a placeholder due date a fixed number of days after the new start so
// the preview still renders a span; the placeholder is marked and is never
// written to the destination.
func BuildSchedulePreview(epic jira.Issue, children []jira.Issue, newStartDate time.Time) SchedulePreview {
	remapper := NewTemporalRemapper()
	deltaDays := remapper.Delta(epic.StartDate, newStartDate)

	epicSchedule := remapper.RemapEpic(Schedule{StartDate: epic.StartDate, DueDate: epic.DueDate}, newStartDate)
	epicRow := ScheduleRow{
		SourceKey:    epic.Key,
		Summary:      epic.Summary,
		TypeName:     epic.TypeName,
		NewStartDate: epicSchedule.StartDate,
		NewDueDate:   epicSchedule.DueDate,
	}
	if epic.StartDate != nil && epicRow.NewDueDate == nil && epicRow.NewStartDate != nil {
		placeholderDue := epicRow.NewStartDate.AddDate(0, 0, epicPlaceholderDurationDaysConstant)
		epicRow.NewDueDate = &placeholderDue
		epicRow.PlaceholderDue = true
	}

	orderedChildren := OrderChildren(children)
	childRows := make([]ScheduleRow, 0, len(orderedChildren))
	for _, child := range orderedChildren {
		childSchedule := remapper.RemapChild(Schedule{StartDate: child.StartDate, DueDate: child.DueDate}, deltaDays)
		childRows = append(childRows, ScheduleRow{
			SourceKey:    child.Key,
			Summary:      child.Summary,
			TypeName:     child.TypeName,
			NewStartDate: childSchedule.StartDate,
			NewDueDate:   childSchedule.DueDate,
		})
	}

	return SchedulePreview{EpicRow: epicRow, ChildRows: childRows, DeltaDays: deltaDays}
}
