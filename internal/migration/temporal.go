package migration

import (
	"time"
)

const hoursPerDayConstant = 24

// Schedule carries the optional calendar bounds of one issue.
type Schedule struct {
	StartDate *time.Time
	DueDate   *time.Time
}

// RemappedSchedule is the shifted schedule produced for one issue, plus the
// duration in whole days where both bounds allow computing one.
type RemappedSchedule struct {
	StartDate    *time.Time
	DueDate      *time.Time
	DurationDays *int
}

// TemporalRemapper derives every migrated date from a single day offset (the
// delta) between the Epic's original start date and the operator-chosen new
// start date.
type TemporalRemapper struct{}

// NewTemporalRemapper constructs a TemporalRemapper.
func NewTemporalRemapper() TemporalRemapper {
	return TemporalRemapper{}
}

// Delta computes the uniform day offset. An Epic without an original start
// date yields a zero delta.
func (TemporalRemapper) Delta(epicOriginalStart *time.Time, newStartDate time.Time) int {
	if epicOriginalStart == nil {
		return 0
	}
	return daysBetween(*epicOriginalStart, newStartDate)
}

// RemapEpic computes the destination Epic's schedule. The new start date is
// always the operator-chosen date; the new due date preserves the original
// duration when both original bounds are present and is absent otherwise.
func (remapper TemporalRemapper) RemapEpic(original Schedule, newStartDate time.Time) RemappedSchedule {
	newStart := truncateToDate(newStartDate)
	remapped := RemappedSchedule{StartDate: &newStart}

	if original.StartDate != nil && original.DueDate != nil {
		durationDays := daysBetween(*original.StartDate, *original.DueDate)
		newDue := newStart.AddDate(0, 0, durationDays)
		remapped.DueDate = &newDue
		remapped.DurationDays = &durationDays
	}

	return remapped
}

// RemapChild shifts one child's schedule by deltaDays. A child without an
// original start date gets no new start date; it is never inferred from
// siblings or from the Epic. The new due date preserves the child's own
// original duration when both original bounds are present. Inverted ranges in
// the source pass through unchanged.
func (remapper TemporalRemapper) RemapChild(original Schedule, deltaDays int) RemappedSchedule {
	remapped := RemappedSchedule{}

	if original.StartDate == nil {
		return remapped
	}

	newStart := truncateToDate(*original.StartDate).AddDate(0, 0, deltaDays)
	remapped.StartDate = &newStart

	if original.DueDate != nil {
		durationDays := daysBetween(*original.StartDate, *original.DueDate)
		newDue := newStart.AddDate(0, 0, durationDays)
		remapped.DueDate = &newDue
		remapped.DurationDays = &durationDays
	}

	return remapped
}

func daysBetween(from time.Time, to time.Time) int {
	fromDate := truncateToDate(from)
	toDate := truncateToDate(to)
	return int(toDate.Sub(fromDate).Hours() / hoursPerDayConstant)
}

func truncateToDate(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
