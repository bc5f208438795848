package migration

import (
	"sort"

	"github.com/epicops/epicmigrate/internal/jira"
)

// OrderChildren returns the children sorted ascending by start date. Children
// without a start date (including those whose wire value failed to parse at
// normalization time) sort last, and the fetch order is preserved among ties.
func OrderChildren(children []jira.Issue) []jira.Issue {
	orderedChildren := append([]jira.Issue(nil), children...)

	sort.SliceStable(orderedChildren, func(firstIndex int, secondIndex int) bool {
		firstStart := orderedChildren[firstIndex].StartDate
		secondStart := orderedChildren[secondIndex].StartDate

		switch {
		case firstStart == nil:
			return false
		case secondStart == nil:
			return true
		default:
			return firstStart.Before(*secondStart)
		}
	})

	return orderedChildren
}
