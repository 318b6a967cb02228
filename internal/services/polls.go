package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/lifecycle"
	"github.com/14kear/online_voting/polls-service/internal/repo"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/google/uuid"
)

const minOptions = 2

//go:generate mockgen -source=polls.go -destination=mocks/polls_mock.go -package=mocks
//go:generate mockgen -source=../repo/repo.go -destination=mocks/vote_writer_mock.go -package=mocks

type Polls struct {
	log          *slog.Logger
	pollStorage  PollStorage
	voteStorage  VoteStorage
	resultsCache ResultsCache
	now          func() time.Time
}

type PollStorage interface {
	SavePoll(ctx context.Context, poll entity.Poll) error
	PollByID(ctx context.Context, id string) (entity.Poll, error)
	// Polls returns polls matching filter at now, newest first.
	Polls(ctx context.Context, filter entity.PollFilter, now time.Time) ([]entity.Poll, error)
	// UpdatePoll overwrites question and window, and the option set when
	// replaceOptions is set, in one step.
	UpdatePoll(ctx context.Context, poll entity.Poll, replaceOptions bool) error
	// DeletePoll removes the poll together with its ledger entries.
	DeletePoll(ctx context.Context, id string) error
}

type VoteStorage interface {
	repo.VoteWriter
	DeleteVote(ctx context.Context, pollID, userID string) error
	// Atomic runs fn as a single unit of work. Storages without
	// multi-record transactions return repo.ErrTxUnsupported without
	// calling fn.
	Atomic(ctx context.Context, fn func(ctx context.Context, w repo.VoteWriter) error) error
}

// ResultsCache keeps results of closed polls. Tallies are frozen once a
// poll closes, so entries never need invalidation.
type ResultsCache interface {
	Results(ctx context.Context, pollID string) (entity.Poll, bool, error)
	SaveResults(ctx context.Context, poll entity.Poll) error
}

// PollView is a poll as seen by one viewer.
type PollView struct {
	Poll          entity.Poll
	Phase         lifecycle.Phase
	TalliesHidden bool
}

func NewPolls(
	log *slog.Logger,
	pollStorage PollStorage,
	voteStorage VoteStorage,
	resultsCache ResultsCache,
) *Polls {
	return &Polls{
		log:          log,
		pollStorage:  pollStorage,
		voteStorage:  voteStorage,
		resultsCache: resultsCache,
		now:          time.Now,
	}
}

// WithClock replaces the time source.
func (s *Polls) WithClock(now func() time.Time) *Polls {
	s.now = now
	return s
}

// CreatePoll validates and stores a new poll owned by creator.
func (s *Polls) CreatePoll(
	ctx context.Context,
	question string,
	options []string,
	startDate, endDate time.Time,
	creator string,
) (entity.Poll, error) {
	const op = "services.Polls.CreatePoll"

	log := s.log.With(slog.String("op", op), slog.String("user_id", creator))

	if creator == "" {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, errUnauthenticated)
	}

	question = strings.TrimSpace(question)
	if question == "" || len(options) < minOptions {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrValidation, "Question and at least 2 options required"))
	}
	if startDate.IsZero() || endDate.IsZero() {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrValidation, "startDate and endDate required"))
	}
	if !startDate.Before(endDate) {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrValidation, "startDate must be before endDate"))
	}

	opts, err := newOptions(options)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	poll := entity.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		Options:   opts,
		StartDate: startDate.UTC(),
		EndDate:   endDate.UTC(),
		CreatedBy: creator,
		CreatedAt: s.now().UTC(),
	}

	if err := s.pollStorage.SavePoll(ctx, poll); err != nil {
		log.Error("failed to save poll", sl.Err(err))
		return entity.Poll{}, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	log.Info("poll created", slog.String("poll_id", poll.ID))

	return poll, nil
}

// ListPolls returns polls matching filter, newest first. The active filter
// is start <= now <= end and the closed filter is end < now, so polls that
// have not started yet only show up unfiltered.
func (s *Polls) ListPolls(ctx context.Context, filter entity.PollFilter, viewerID string) ([]PollView, error) {
	const op = "services.Polls.ListPolls"

	now := s.now()

	polls, err := s.pollStorage.Polls(ctx, filter, now)
	if err != nil {
		s.log.Error("failed to list polls", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	views := make([]PollView, 0, len(polls))
	for _, poll := range polls {
		views = append(views, view(poll, now, viewerID))
	}

	return views, nil
}

// GetPoll loads a poll and decides whether viewerID may see its tallies.
// An empty viewerID is an anonymous reader.
func (s *Polls) GetPoll(ctx context.Context, id, viewerID string) (PollView, error) {
	const op = "services.Polls.GetPoll"

	poll, err := s.pollByID(ctx, op, id)
	if err != nil {
		return PollView{}, err
	}

	return view(poll, s.now(), viewerID), nil
}

// UpdatePoll applies patch on behalf of requester. Replacing the options
// issues fresh option IDs and resets every tally to zero.
func (s *Polls) UpdatePoll(ctx context.Context, id string, patch entity.PollPatch, requester string) (entity.Poll, error) {
	const op = "services.Polls.UpdatePoll"

	log := s.log.With(slog.String("op", op), slog.String("poll_id", id), slog.String("user_id", requester))

	if requester == "" {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, errUnauthenticated)
	}

	poll, err := s.pollByID(ctx, op, id)
	if err != nil {
		return entity.Poll{}, err
	}

	if poll.CreatedBy != requester {
		log.Warn("update attempt by non-creator")
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrForbidden, "Not authorized"))
	}

	if !lifecycle.Of(poll, s.now()).Editable() {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrInvalidState, "Poll already closed; cannot update"))
	}

	if patch.Question != nil && strings.TrimSpace(*patch.Question) != "" {
		poll.Question = strings.TrimSpace(*patch.Question)
	}
	if patch.StartDate != nil {
		poll.StartDate = patch.StartDate.UTC()
	}
	if patch.EndDate != nil {
		poll.EndDate = patch.EndDate.UTC()
	}
	if !poll.StartDate.Before(poll.EndDate) {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrValidation, "startDate must be before endDate"))
	}
	if patch.Options != nil {
		if len(patch.Options) < minOptions {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrValidation, "at least 2 options required"))
		}
		opts, err := newOptions(patch.Options)
		if err != nil {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
		}
		poll.Options = opts
	}

	if err := s.pollStorage.UpdatePoll(ctx, poll, patch.Options != nil); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrNotFound, "Poll not found"))
		}
		log.Error("failed to update poll", sl.Err(err))
		return entity.Poll{}, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	log.Info("poll updated", slog.Bool("options_replaced", patch.Options != nil))

	return poll, nil
}

// DeletePoll removes an open poll and its ledger on behalf of requester.
func (s *Polls) DeletePoll(ctx context.Context, id, requester string) error {
	const op = "services.Polls.DeletePoll"

	log := s.log.With(slog.String("op", op), slog.String("poll_id", id), slog.String("user_id", requester))

	if requester == "" {
		return fmt.Errorf("%s: %w", op, errUnauthenticated)
	}

	poll, err := s.pollByID(ctx, op, id)
	if err != nil {
		return err
	}

	if poll.CreatedBy != requester {
		log.Warn("delete attempt by non-creator")
		return fmt.Errorf("%s: %w", op, newError(ErrForbidden, "Not authorized"))
	}

	if !lifecycle.Of(poll, s.now()).Editable() {
		return fmt.Errorf("%s: %w", op, newError(ErrInvalidState, "Poll already closed; cannot delete"))
	}

	if err := s.pollStorage.DeletePoll(ctx, id); err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return fmt.Errorf("%s: %w", op, newError(ErrNotFound, "Poll not found"))
		}
		log.Error("failed to delete poll", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	log.Info("poll deleted")

	return nil
}

// Results returns the final tallies of a closed poll.
func (s *Polls) Results(ctx context.Context, id string) (entity.Poll, error) {
	const op = "services.Polls.Results"

	log := s.log.With(slog.String("op", op), slog.String("poll_id", id))

	if s.resultsCache != nil {
		poll, ok, err := s.resultsCache.Results(ctx, id)
		if err != nil {
			log.Warn("results cache read failed", sl.Err(err))
		} else if ok {
			return poll, nil
		}
	}

	poll, err := s.pollByID(ctx, op, id)
	if err != nil {
		return entity.Poll{}, err
	}

	if !lifecycle.Of(poll, s.now()).ResultsVisible() {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrInvalidState, "Poll not closed yet"))
	}

	if s.resultsCache != nil {
		if err := s.resultsCache.SaveResults(ctx, poll); err != nil {
			log.Warn("results cache write failed", sl.Err(err))
		}
	}

	return poll, nil
}

func (s *Polls) pollByID(ctx context.Context, op, id string) (entity.Poll, error) {
	poll, err := s.pollStorage.PollByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrPollNotFound) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, newError(ErrNotFound, "Poll not found"))
		}
		s.log.Error("failed to get poll", slog.String("op", op), slog.String("poll_id", id), sl.Err(err))
		return entity.Poll{}, fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}

	return poll, nil
}

func view(poll entity.Poll, now time.Time, viewerID string) PollView {
	phase := lifecycle.Of(poll, now)
	return PollView{
		Poll:          poll,
		Phase:         phase,
		TalliesHidden: !phase.TalliesVisible(viewerID != ""),
	}
}

func newOptions(texts []string) ([]entity.Option, error) {
	opts := make([]entity.Option, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, newError(ErrValidation, "option text must not be empty")
		}
		opts = append(opts, entity.Option{
			ID:   uuid.NewString(),
			Text: text,
		})
	}
	return opts, nil
}
