package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationPath = "../../../migrations/1_init.up.sql"

// newTestStorage connects to POLLS_TEST_POSTGRES_URL and applies the schema.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	url := os.Getenv("POLLS_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("POLLS_TEST_POSTGRES_URL is not set")
	}

	s, err := New(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	schema, err := os.ReadFile(migrationPath)
	require.NoError(t, err)
	_, err = s.db.Exec(string(schema))
	require.NoError(t, err)

	return s
}

func testPoll() entity.Poll {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return entity.Poll{
		ID:       uuid.NewString(),
		Question: "Lunch?",
		Options: []entity.Option{
			{ID: uuid.NewString(), Text: "Pizza"},
			{ID: uuid.NewString(), Text: "Sushi"},
		},
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		CreatedBy: "creator",
		CreatedAt: now,
	}
}

func TestStorage_PollRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	poll := testPoll()
	require.NoError(t, s.SavePoll(ctx, poll))
	t.Cleanup(func() { _ = s.DeletePoll(ctx, poll.ID) })

	got, err := s.PollByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.Question, got.Question)
	assert.Equal(t, poll.Options, got.Options)
	assert.True(t, poll.EndDate.Equal(got.EndDate))

	active, err := s.Polls(ctx, entity.PollFilterActive, time.Now())
	require.NoError(t, err)
	assert.Contains(t, pollIDs(active), poll.ID)

	closed, err := s.Polls(ctx, entity.PollFilterClosed, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, pollIDs(closed), poll.ID)

	_, err = s.PollByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repo.ErrPollNotFound)
}

func TestStorage_UpdatePoll(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	poll := testPoll()
	require.NoError(t, s.SavePoll(ctx, poll))
	t.Cleanup(func() { _ = s.DeletePoll(ctx, poll.ID) })

	require.NoError(t, s.IncrementTally(ctx, poll.ID, poll.Options[0].ID))

	poll.Question = "Dinner?"
	require.NoError(t, s.UpdatePoll(ctx, poll, false))

	got, err := s.PollByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner?", got.Question)
	assert.Equal(t, int64(1), got.Options[0].Votes)

	poll.Options = []entity.Option{{ID: uuid.NewString(), Text: "Tacos"}, {ID: uuid.NewString(), Text: "Curry"}}
	require.NoError(t, s.UpdatePoll(ctx, poll, true))

	got, err = s.PollByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.Options, got.Options)

	poll.ID = uuid.NewString()
	assert.ErrorIs(t, s.UpdatePoll(ctx, poll, false), repo.ErrPollNotFound)
}

func TestStorage_Atomic(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	poll := testPoll()
	require.NoError(t, s.SavePoll(ctx, poll))
	t.Cleanup(func() { _ = s.DeletePoll(ctx, poll.ID) })

	vote := entity.Vote{PollID: poll.ID, UserID: "u1", OptionID: "stale", VotedAt: time.Now()}

	err := s.Atomic(ctx, func(ctx context.Context, w repo.VoteWriter) error {
		if err := w.SaveVote(ctx, vote); err != nil {
			return err
		}
		return w.IncrementTally(ctx, poll.ID, vote.OptionID)
	})
	assert.ErrorIs(t, err, repo.ErrOptionNotFound)

	n, err := s.CountVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "ledger insert rolled back")

	vote.OptionID = poll.Options[1].ID
	record := func(ctx context.Context, w repo.VoteWriter) error {
		if err := w.SaveVote(ctx, vote); err != nil {
			return err
		}
		return w.IncrementTally(ctx, poll.ID, vote.OptionID)
	}
	require.NoError(t, s.Atomic(ctx, record))
	assert.ErrorIs(t, s.Atomic(ctx, record), repo.ErrDuplicateVote)

	got, err := s.PollByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalVotes())
}

func TestStorage_ConcurrentVotes(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	poll := testPoll()
	require.NoError(t, s.SavePoll(ctx, poll))
	t.Cleanup(func() { _ = s.DeletePoll(ctx, poll.ID) })

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			vote := entity.Vote{
				PollID:   poll.ID,
				UserID:   fmt.Sprintf("user-%d", i%10),
				OptionID: poll.Options[i%2].ID,
				VotedAt:  time.Now(),
			}
			err := s.Atomic(ctx, func(ctx context.Context, w repo.VoteWriter) error {
				if err := w.SaveVote(ctx, vote); err != nil {
					return err
				}
				return w.IncrementTally(ctx, poll.ID, vote.OptionID)
			})
			if err != nil && !errors.Is(err, repo.ErrDuplicateVote) {
				t.Errorf("vote: %v", err)
			}
		}(i)
	}
	wg.Wait()

	n, err := s.CountVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	got, err := s.PollByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.TotalVotes())
}

func TestStorage_DeleteCascades(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	poll := testPoll()
	require.NoError(t, s.SavePoll(ctx, poll))
	require.NoError(t, s.SaveVote(ctx, entity.Vote{PollID: poll.ID, UserID: "u1", OptionID: poll.Options[0].ID, VotedAt: time.Now()}))

	require.NoError(t, s.DeleteVote(ctx, poll.ID, "u1"))
	assert.ErrorIs(t, s.DeleteVote(ctx, poll.ID, "u1"), repo.ErrVoteNotFound)

	require.NoError(t, s.SaveVote(ctx, entity.Vote{PollID: poll.ID, UserID: "u1", OptionID: poll.Options[0].ID, VotedAt: time.Now()}))
	require.NoError(t, s.DeletePoll(ctx, poll.ID))

	n, err := s.CountVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, s.DeletePoll(ctx, poll.ID), repo.ErrPollNotFound)
}

func TestStorage_Users(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := entity.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", PassHash: []byte("hash"), CreatedAt: time.Now()}
	require.NoError(t, s.SaveUser(ctx, user))
	t.Cleanup(func() { _, _ = s.db.Exec(`DELETE FROM users WHERE id = $1`, user.ID) })

	assert.ErrorIs(t, s.SaveUser(ctx, user), repo.ErrUserExists)

	got, err := s.User(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.PassHash, got.PassHash)

	_, err = s.User(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}

func pollIDs(polls []entity.Poll) []string {
	ids := make([]string, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
	}
	return ids
}
