package memory

import (
	"context"
	"testing"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)

func poll(id string, start, end time.Time, createdAt time.Time) entity.Poll {
	return entity.Poll{
		ID:       id,
		Question: "q-" + id,
		Options: []entity.Option{
			{ID: id + "-a", Text: "A"},
			{ID: id + "-b", Text: "B"},
		},
		StartDate: start,
		EndDate:   end,
		CreatedBy: "creator",
		CreatedAt: createdAt,
	}
}

func ids(polls []entity.Poll) []string {
	res := make([]string, 0, len(polls))
	for _, p := range polls {
		res = append(res, p.ID)
	}
	return res
}

func TestStorage_Polls_Filters(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SavePoll(ctx, poll("upcoming", now.Add(time.Hour), now.Add(2*time.Hour), now.Add(-4*time.Minute))))
	require.NoError(t, s.SavePoll(ctx, poll("active", now.Add(-time.Hour), now.Add(time.Hour), now.Add(-3*time.Minute))))
	require.NoError(t, s.SavePoll(ctx, poll("ending", now.Add(-time.Hour), now, now.Add(-2*time.Minute))))
	require.NoError(t, s.SavePoll(ctx, poll("closed", now.Add(-2*time.Hour), now.Add(-time.Hour), now.Add(-time.Minute))))

	tests := []struct {
		filter entity.PollFilter
		want   []string
	}{
		{filter: entity.PollFilterAll, want: []string{"closed", "ending", "active", "upcoming"}},
		{filter: entity.PollFilterActive, want: []string{"ending", "active"}},
		{filter: entity.PollFilterClosed, want: []string{"closed"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			polls, err := s.Polls(ctx, tt.filter, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(polls))
		})
	}
}

func TestStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := poll("p", now, now.Add(time.Hour), now)
	require.NoError(t, s.SavePoll(ctx, p))

	p.Options[0].Votes = 100

	got, err := s.PollByID(ctx, "p")
	require.NoError(t, err)
	assert.Zero(t, got.Options[0].Votes)

	got.Options[1].Votes = 100

	again, err := s.PollByID(ctx, "p")
	require.NoError(t, err)
	assert.Zero(t, again.Options[1].Votes)
}

func TestStorage_UpdatePoll(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps tallies when options untouched", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SavePoll(ctx, poll("p", now, now.Add(time.Hour), now)))

		stale, err := s.PollByID(ctx, "p")
		require.NoError(t, err)

		require.NoError(t, s.IncrementTally(ctx, "p", "p-a"))

		stale.Question = "renamed"
		require.NoError(t, s.UpdatePoll(ctx, stale, false))

		got, err := s.PollByID(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Question)
		assert.Equal(t, int64(1), got.Options[0].Votes)
	})

	t.Run("replaces options", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SavePoll(ctx, poll("p", now, now.Add(time.Hour), now)))
		require.NoError(t, s.IncrementTally(ctx, "p", "p-a"))

		next := poll("p", now, now.Add(time.Hour), now)
		next.Options = []entity.Option{{ID: "c", Text: "C"}, {ID: "d", Text: "D"}}
		require.NoError(t, s.UpdatePoll(ctx, next, true))

		got, err := s.PollByID(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, next.Options, got.Options)

		assert.ErrorIs(t, s.IncrementTally(ctx, "p", "p-a"), repo.ErrOptionNotFound)
	})

	t.Run("missing poll", func(t *testing.T) {
		s := New()
		err := s.UpdatePoll(ctx, poll("p", now, now.Add(time.Hour), now), true)
		assert.ErrorIs(t, err, repo.ErrPollNotFound)
	})
}

func TestStorage_Votes(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SavePoll(ctx, poll("p", now, now.Add(time.Hour), now)))

	vote := entity.Vote{PollID: "p", UserID: "u", OptionID: "p-a", VotedAt: now}

	require.NoError(t, s.SaveVote(ctx, vote))
	assert.ErrorIs(t, s.SaveVote(ctx, vote), repo.ErrDuplicateVote)

	n, err := s.CountVotes(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.DeleteVote(ctx, "p", "u"))
	assert.ErrorIs(t, s.DeleteVote(ctx, "p", "u"), repo.ErrVoteNotFound)

	require.NoError(t, s.SaveVote(ctx, vote), "slot is free again after delete")

	assert.ErrorIs(t, s.IncrementTally(ctx, "missing", "p-a"), repo.ErrOptionNotFound)
	assert.ErrorIs(t, s.Atomic(ctx, nil), repo.ErrTxUnsupported)
}

func TestStorage_DeletePoll(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SavePoll(ctx, poll("p", now, now.Add(time.Hour), now)))
	require.NoError(t, s.SavePoll(ctx, poll("q", now, now.Add(time.Hour), now)))
	require.NoError(t, s.SaveVote(ctx, entity.Vote{PollID: "p", UserID: "u", OptionID: "p-a"}))
	require.NoError(t, s.SaveVote(ctx, entity.Vote{PollID: "q", UserID: "u", OptionID: "q-a"}))

	require.NoError(t, s.DeletePoll(ctx, "p"))
	assert.ErrorIs(t, s.DeletePoll(ctx, "p"), repo.ErrPollNotFound)

	_, err := s.PollByID(ctx, "p")
	assert.ErrorIs(t, err, repo.ErrPollNotFound)

	n, err := s.CountVotes(ctx, "p")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.CountVotes(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStorage_Users(t *testing.T) {
	ctx := context.Background()
	s := New()

	user := entity.User{ID: "1", Email: "a@example.com", PassHash: []byte("hash")}
	require.NoError(t, s.SaveUser(ctx, user))
	assert.ErrorIs(t, s.SaveUser(ctx, user), repo.ErrUserExists)

	got, err := s.User(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = s.User(ctx, "b@example.com")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}
