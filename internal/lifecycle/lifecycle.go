// Package lifecycle classifies a poll by its time window.
//
// A poll is UPCOMING before StartDate, ACTIVE inside [StartDate, EndDate)
// and CLOSED from EndDate on. The closing instant locks edits and unlocks
// results at the same time.
package lifecycle

import (
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
)

type Phase string

const (
	Upcoming Phase = "upcoming"
	Active   Phase = "active"
	Closed   Phase = "closed"
)

// Classify returns the phase of the window [start, end) at now.
func Classify(start, end, now time.Time) Phase {
	switch {
	case !now.Before(end):
		return Closed
	case now.Before(start):
		return Upcoming
	default:
		return Active
	}
}

// Of returns the phase of poll at now.
func Of(poll entity.Poll, now time.Time) Phase {
	return Classify(poll.StartDate, poll.EndDate, now)
}

// Votable reports whether votes are accepted.
func (p Phase) Votable() bool {
	return p == Active
}

// Editable reports whether the creator may still update or delete the poll.
func (p Phase) Editable() bool {
	return p != Closed
}

// ResultsVisible reports whether the results endpoint answers.
func (p Phase) ResultsVisible() bool {
	return p == Closed
}

// TalliesVisible reports whether per-option tallies may be shown to a
// viewer. Only unauthenticated viewers of an active poll are denied.
func (p Phase) TalliesVisible(authenticated bool) bool {
	return p != Active || authenticated
}
