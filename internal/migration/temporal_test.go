package migration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epicops/epicmigrate/internal/migration"
)

func datePointer(year int, month time.Month, day int) *time.Time {
	value := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &value
}

func TestTemporalRemapperDelta(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name          string
		originalStart *time.Time
		newStart      time.Time
		expectedDelta int
	}{
		{
			name:          "forward_shift",
			originalStart: datePointer(2024, time.January, 1),
			newStart:      time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			expectedDelta: 31,
		},
		{
			name:          "backward_shift",
			originalStart: datePointer(2024, time.March, 10),
			newStart:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			expectedDelta: -9,
		},
		{
			name:          "same_day",
			originalStart: datePointer(2024, time.June, 15),
			newStart:      time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
			expectedDelta: 0,
		},
		{
			name:          "missing_original_start",
			originalStart: nil,
			newStart:      time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			expectedDelta: 0,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			remapper := migration.NewTemporalRemapper()
			require.Equal(subtestInstance, testCase.expectedDelta, remapper.Delta(testCase.originalStart, testCase.newStart))
		})
	}
}

func TestTemporalRemapperRemapEpic(testInstance *testing.T) {
	testInstance.Parallel()

	newStart := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name             string
		original         migration.Schedule
		expectedDueDate  *time.Time
		expectedDuration *int
	}{
		{
			name: "duration_preserved",
			original: migration.Schedule{
				StartDate: datePointer(2024, time.January, 1),
				DueDate:   datePointer(2024, time.January, 10),
			},
			expectedDueDate:  datePointer(2024, time.February, 10),
			expectedDuration: intPointer(9),
		},
		{
			name: "missing_due_date_stays_absent",
			original: migration.Schedule{
				StartDate: datePointer(2024, time.January, 1),
			},
			expectedDueDate: nil,
		},
		{
			name:            "missing_both_bounds",
			original:        migration.Schedule{},
			expectedDueDate: nil,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			remapper := migration.NewTemporalRemapper()
			remapped := remapper.RemapEpic(testCase.original, newStart)

			require.NotNil(subtestInstance, remapped.StartDate)
			require.Equal(subtestInstance, newStart, *remapped.StartDate)
			require.Equal(subtestInstance, testCase.expectedDueDate, remapped.DueDate)
			require.Equal(subtestInstance, testCase.expectedDuration, remapped.DurationDays)
		})
	}
}

func TestTemporalRemapperRemapChild(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name              string
		original          migration.Schedule
		deltaDays         int
		expectedStartDate *time.Time
		expectedDueDate   *time.Time
	}{
		{
			name: "both_bounds_shift_and_preserve_duration",
			original: migration.Schedule{
				StartDate: datePointer(2024, time.January, 5),
				DueDate:   datePointer(2024, time.January, 7),
			},
			deltaDays:         31,
			expectedStartDate: datePointer(2024, time.February, 5),
			expectedDueDate:   datePointer(2024, time.February, 7),
		},
		{
			name: "missing_due_date_stays_absent",
			original: migration.Schedule{
				StartDate: datePointer(2024, time.January, 3),
			},
			deltaDays:         31,
			expectedStartDate: datePointer(2024, time.February, 3),
		},
		{
			name:      "missing_start_date_yields_empty_schedule",
			original:  migration.Schedule{DueDate: datePointer(2024, time.January, 7)},
			deltaDays: 31,
		},
		{
			name: "inverted_range_passes_through",
			original: migration.Schedule{
				StartDate: datePointer(2024, time.January, 10),
				DueDate:   datePointer(2024, time.January, 5),
			},
			deltaDays:         10,
			expectedStartDate: datePointer(2024, time.January, 20),
			expectedDueDate:   datePointer(2024, time.January, 15),
		},
		{
			name: "negative_delta_shifts_backward",
			original: migration.Schedule{
				StartDate: datePointer(2024, time.March, 10),
				DueDate:   datePointer(2024, time.March, 12),
			},
			deltaDays:         -9,
			expectedStartDate: datePointer(2024, time.March, 1),
			expectedDueDate:   datePointer(2024, time.March, 3),
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			remapper := migration.NewTemporalRemapper()
			remapped := remapper.RemapChild(testCase.original, testCase.deltaDays)

			require.Equal(subtestInstance, testCase.expectedStartDate, remapped.StartDate)
			require.Equal(subtestInstance, testCase.expectedDueDate, remapped.DueDate)
		})
	}
}

func intPointer(value int) *int {
	return &value
}
