package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/lifecycle"
	"github.com/14kear/online_voting/polls-service/internal/repo"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

// Vote records voterID's choice of optionID on pollID.
//
// The ledger entry is written first and the tally second. Both happen in
// one transaction when the storage supports it; otherwise the ledger entry
// is removed again if the tally increment fails. A tally is never
// incremented without a new ledger entry behind it.
func (s *Polls) Vote(ctx context.Context, pollID, optionID, voterID string) error {
	const op = "services.Polls.Vote"

	log := s.log.With(
		slog.String("op", op),
		slog.String("poll_id", pollID),
		slog.String("user_id", voterID),
		slog.String("option_id", optionID),
	)

	if voterID == "" {
		return fmt.Errorf("%s: %w", op, errUnauthenticated)
	}
	if optionID == "" {
		return fmt.Errorf("%s: %w", op, newError(ErrValidation, "optionId required"))
	}

	poll, err := s.pollByID(ctx, op, pollID)
	if err != nil {
		return err
	}

	now := s.now()
	if !lifecycle.Of(poll, now).Votable() {
		return fmt.Errorf("%s: %w", op, newError(ErrInvalidState, "Poll is not active"))
	}

	vote := entity.Vote{
		PollID:   pollID,
		UserID:   voterID,
		OptionID: optionID,
		VotedAt:  now.UTC(),
	}

	err = s.voteStorage.Atomic(ctx, func(ctx context.Context, w repo.VoteWriter) error {
		if err := w.SaveVote(ctx, vote); err != nil {
			return err
		}
		return w.IncrementTally(ctx, pollID, optionID)
	})
	if errors.Is(err, repo.ErrTxUnsupported) {
		log.Debug("storage has no transactions, recording vote with compensation")
		err = s.voteCompensating(ctx, log, vote)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, voteError(log, err))
	}

	log.Info("vote recorded")

	return nil
}

// voteCompensating performs the same writes as the transactional path
// without a transaction and undoes the ledger insert when the tally
// increment fails.
func (s *Polls) voteCompensating(ctx context.Context, log *slog.Logger, vote entity.Vote) error {
	if err := s.voteStorage.SaveVote(ctx, vote); err != nil {
		return err
	}

	incErr := s.voteStorage.IncrementTally(ctx, vote.PollID, vote.OptionID)
	if incErr == nil {
		return nil
	}

	// The request may already be cancelled; the rollback must still run.
	rollbackCtx := context.WithoutCancel(ctx)
	err := s.voteStorage.DeleteVote(rollbackCtx, vote.PollID, vote.UserID)
	switch {
	case errors.Is(err, repo.ErrVoteNotFound):
		// Already gone, e.g. removed with its poll.
		log.Info("ledger entry already removed", slog.String("cause", incErr.Error()))
	case err != nil:
		log.Error("failed to roll back ledger entry", sl.Err(err), slog.String("cause", incErr.Error()))
		return fmt.Errorf("roll back ledger entry after %v: %w", incErr, err)
	}

	return incErr
}

func voteError(log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateVote):
		return newError(ErrDuplicateVote, "You have already voted on this poll")
	case errors.Is(err, repo.ErrOptionNotFound):
		return newError(ErrInvalidOption, "Invalid optionId")
	default:
		log.Error("failed to record vote", sl.Err(err))
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
