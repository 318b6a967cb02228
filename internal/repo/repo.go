package repo

import (
	"context"

	"github.com/14kear/online_voting/polls-service/internal/entity"
)

// VoteWriter is the pair of writes a vote consists of. Inside Atomic both
// run in one unit of work.
type VoteWriter interface {
	// SaveVote inserts a ledger entry. Returns ErrDuplicateVote when the
	// (poll, user) pair already exists.
	SaveVote(ctx context.Context, vote entity.Vote) error
	// IncrementTally adds one to the option's tally with a single atomic
	// increment. Returns ErrOptionNotFound when the option is not on the poll.
	IncrementTally(ctx context.Context, pollID, optionID string) error
}
