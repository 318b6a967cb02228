package repo

import "errors"

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrVoteNotFound   = errors.New("vote not found")
	ErrDuplicateVote  = errors.New("vote already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")

	// ErrTxUnsupported is returned by storages that cannot run a
	// multi-record transaction. Nothing has been written when it is returned.
	ErrTxUnsupported = errors.New("transactions are not supported")
)
