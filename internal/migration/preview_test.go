package migration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epicops/epicmigrate/internal/jira"
	"github.com/epicops/epicmigrate/internal/migration"
)

func TestBuildSchedulePreview(testInstance *testing.T) {
	testInstance.Parallel()

	epic := templateEpic()
	children := []jira.Issue{
		{Key: "PPT-2", Summary: "Prepare environment", TypeName: "Task", StartDate: datePointer(2024, time.January, 5), DueDate: datePointer(2024, time.January, 7)},
		{Key: "PPT-3", Summary: "Verify rollout", TypeName: "Story", StartDate: datePointer(2024, time.January, 3)},
		{Key: "PPT-4", Summary: "Undated follow-up", TypeName: "Task"},
	}
	newStart := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	preview := migration.BuildSchedulePreview(epic, children, newStart)

	require.Equal(testInstance, 31, preview.DeltaDays)
	require.Equal(testInstance, datePointer(2024, time.February, 1), preview.EpicRow.NewStartDate)
	require.Equal(testInstance, datePointer(2024, time.February, 10), preview.EpicRow.NewDueDate)
	require.False(testInstance, preview.EpicRow.PlaceholderDue)

	require.Len(testInstance, preview.ChildRows, 3)
	require.Equal(testInstance, "PPT-3", preview.ChildRows[0].SourceKey)
	require.Equal(testInstance, datePointer(2024, time.February, 3), preview.ChildRows[0].NewStartDate)
	require.Nil(testInstance, preview.ChildRows[0].NewDueDate)
	require.Equal(testInstance, "PPT-2", preview.ChildRows[1].SourceKey)
	require.Equal(testInstance, datePointer(2024, time.February, 7), preview.ChildRows[1].NewDueDate)
	require.Equal(testInstance, "PPT-4", preview.ChildRows[2].SourceKey)
	require.Nil(testInstance, preview.ChildRows[2].NewStartDate)
}

func TestBuildSchedulePreviewEpicWithoutDueDateGetsPlaceholder(testInstance *testing.T) {
	testInstance.Parallel()

	epic := templateEpic()
	epic.DueDate = nil
	newStart := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	preview := migration.BuildSchedulePreview(epic, nil, newStart)

	require.True(testInstance, preview.EpicRow.PlaceholderDue)
	require.Equal(testInstance, datePointer(2024, time.February, 8), preview.EpicRow.NewDueDate)
}

func TestBuildSchedulePreviewEpicWithoutOriginalStartGetsNoPlaceholder(testInstance *testing.T) {
	testInstance.Parallel()

	epic := templateEpic()
	epic.StartDate = nil
	epic.DueDate = nil
	newStart := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	preview := migration.BuildSchedulePreview(epic, nil, newStart)

	require.False(testInstance, preview.EpicRow.PlaceholderDue)
	require.Nil(testInstance, preview.EpicRow.NewDueDate)
	require.Equal(testInstance, datePointer(2024, time.February, 1), preview.EpicRow.NewStartDate)
}
