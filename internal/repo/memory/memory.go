// Package memory is a process-local storage. It offers only single-record
// atomic operations, so votes go through the compensating path.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/repo"
)

type voteKey struct {
	pollID string
	userID string
}

type Storage struct {
	mu    sync.RWMutex
	polls map[string]entity.Poll
	votes map[voteKey]entity.Vote
	users map[string]entity.User
}

func New() *Storage {
	return &Storage{
		polls: make(map[string]entity.Poll),
		votes: make(map[voteKey]entity.Vote),
		users: make(map[string]entity.User),
	}
}

func (s *Storage) SavePoll(_ context.Context, poll entity.Poll) error {
	const op = "storage.memory.SavePoll"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[poll.ID]; ok {
		return fmt.Errorf("%s: poll %s already exists", op, poll.ID)
	}
	s.polls[poll.ID] = clonePoll(poll)

	return nil
}

func (s *Storage) PollByID(_ context.Context, id string) (entity.Poll, error) {
	const op = "storage.memory.PollByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, ok := s.polls[id]
	if !ok {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	return clonePoll(poll), nil
}

func (s *Storage) Polls(_ context.Context, filter entity.PollFilter, now time.Time) ([]entity.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := make([]entity.Poll, 0, len(s.polls))
	for _, poll := range s.polls {
		switch filter {
		case entity.PollFilterActive:
			if poll.StartDate.After(now) || poll.EndDate.Before(now) {
				continue
			}
		case entity.PollFilterClosed:
			if !poll.EndDate.Before(now) {
				continue
			}
		}
		polls = append(polls, clonePoll(poll))
	}

	sort.Slice(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})

	return polls, nil
}

func (s *Storage) UpdatePoll(_ context.Context, poll entity.Poll, replaceOptions bool) error {
	const op = "storage.memory.UpdatePoll"

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.polls[poll.ID]
	if !ok {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	current.Question = poll.Question
	current.StartDate = poll.StartDate
	current.EndDate = poll.EndDate
	if replaceOptions {
		current.Options = clonePoll(poll).Options
	}
	s.polls[poll.ID] = current

	return nil
}

func (s *Storage) DeletePoll(_ context.Context, id string) error {
	const op = "storage.memory.DeletePoll"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[id]; !ok {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	delete(s.polls, id)

	for key := range s.votes {
		if key.pollID == id {
			delete(s.votes, key)
		}
	}

	return nil
}

func (s *Storage) SaveVote(_ context.Context, vote entity.Vote) error {
	const op = "storage.memory.SaveVote"

	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{pollID: vote.PollID, userID: vote.UserID}
	if _, ok := s.votes[key]; ok {
		return fmt.Errorf("%s: %w", op, repo.ErrDuplicateVote)
	}
	s.votes[key] = vote

	return nil
}

func (s *Storage) DeleteVote(_ context.Context, pollID, userID string) error {
	const op = "storage.memory.DeleteVote"

	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{pollID: pollID, userID: userID}
	if _, ok := s.votes[key]; !ok {
		return fmt.Errorf("%s: %w", op, repo.ErrVoteNotFound)
	}
	delete(s.votes, key)

	return nil
}

func (s *Storage) IncrementTally(_ context.Context, pollID, optionID string) error {
	const op = "storage.memory.IncrementTally"

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pollID]
	if !ok {
		return fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
	}
	for i := range poll.Options {
		if poll.Options[i].ID == optionID {
			poll.Options[i].Votes++
			s.polls[pollID] = poll
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
}

func (s *Storage) Atomic(context.Context, func(context.Context, repo.VoteWriter) error) error {
	return repo.ErrTxUnsupported
}

// CountVotes returns the number of ledger entries of a poll.
func (s *Storage) CountVotes(_ context.Context, pollID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for key := range s.votes {
		if key.pollID == pollID {
			n++
		}
	}

	return n, nil
}

func (s *Storage) SaveUser(_ context.Context, user entity.User) error {
	const op = "storage.memory.SaveUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return fmt.Errorf("%s: %w", op, repo.ErrUserExists)
	}
	s.users[user.Email] = user

	return nil
}

func (s *Storage) User(_ context.Context, email string) (entity.User, error) {
	const op = "storage.memory.User"

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return entity.User{}, fmt.Errorf("%s: %w", op, repo.ErrUserNotFound)
	}

	return user, nil
}

func clonePoll(poll entity.Poll) entity.Poll {
	poll.Options = append([]entity.Option(nil), poll.Options...)
	return poll
}
