package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/repo"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Storage struct {
	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SavePoll(ctx context.Context, poll entity.Poll) error {
	const op = "storage.postgres.SavePoll"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	query := `INSERT INTO polls (id, question, start_date, end_date, created_by, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.ExecContext(ctx, query, poll.ID, poll.Question, poll.StartDate, poll.EndDate, poll.CreatedBy, poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := insertOptions(ctx, tx, poll.ID, poll.Options); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) PollByID(ctx context.Context, id string) (entity.Poll, error) {
	const op = "storage.postgres.PollByID"

	query := `SELECT id, question, start_date, end_date, created_by, created_at FROM polls WHERE id = $1`

	var poll entity.Poll
	err := s.db.QueryRowContext(ctx, query, id).Scan(&poll.ID, &poll.Question, &poll.StartDate, &poll.EndDate, &poll.CreatedBy, &poll.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, votes FROM options WHERE poll_id = $1 ORDER BY position`, id)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var option entity.Option
		if err := rows.Scan(&option.ID, &option.Text, &option.Votes); err != nil {
			return entity.Poll{}, fmt.Errorf("%s: scan: %w", op, err)
		}
		poll.Options = append(poll.Options, option)
	}

	if err := rows.Err(); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) Polls(ctx context.Context, filter entity.PollFilter, now time.Time) ([]entity.Poll, error) {
	const op = "storage.postgres.Polls"

	query := `SELECT p.id, p.question, p.start_date, p.end_date, p.created_by, p.created_at, o.id, o.text, o.votes
		FROM polls p LEFT JOIN options o ON o.poll_id = p.id`
	var args []any

	switch filter {
	case entity.PollFilterActive:
		query += ` WHERE p.start_date <= $1 AND p.end_date >= $1`
		args = append(args, now)
	case entity.PollFilterClosed:
		query += ` WHERE p.end_date < $1`
		args = append(args, now)
	}
	query += ` ORDER BY p.created_at DESC, p.id, o.position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	polls := make([]entity.Poll, 0)
	for rows.Next() {
		var (
			poll                 entity.Poll
			optionID, optionText sql.NullString
			optionVotes          sql.NullInt64
		)
		if err := rows.Scan(
			&poll.ID, &poll.Question, &poll.StartDate, &poll.EndDate, &poll.CreatedBy, &poll.CreatedAt,
			&optionID, &optionText, &optionVotes,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if n := len(polls); n == 0 || polls[n-1].ID != poll.ID {
			polls = append(polls, poll)
		}
		if optionID.Valid {
			last := &polls[len(polls)-1]
			last.Options = append(last.Options, entity.Option{
				ID:    optionID.String,
				Text:  optionText.String,
				Votes: optionVotes.Int64,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return polls, nil
}

func (s *Storage) UpdatePoll(ctx context.Context, poll entity.Poll, replaceOptions bool) error {
	const op = "storage.postgres.UpdatePoll"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	const query = `UPDATE polls SET question = $1, start_date = $2, end_date = $3 WHERE id = $4`

	res, err := tx.ExecContext(ctx, query, poll.Question, poll.StartDate, poll.EndDate, poll.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	if replaceOptions {
		if _, err := tx.ExecContext(ctx, `DELETE FROM options WHERE poll_id = $1`, poll.ID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := insertOptions(ctx, tx, poll.ID, poll.Options); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// DeletePoll relies on ON DELETE CASCADE for options and votes.
func (s *Storage) DeletePoll(ctx context.Context, id string) error {
	const op = "storage.postgres.DeletePoll"

	res, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	return nil
}

func (s *Storage) SaveVote(ctx context.Context, vote entity.Vote) error {
	return saveVote(ctx, s.db, vote)
}

func (s *Storage) IncrementTally(ctx context.Context, pollID, optionID string) error {
	return incrementTally(ctx, s.db, pollID, optionID)
}

func (s *Storage) DeleteVote(ctx context.Context, pollID, userID string) error {
	const op = "storage.postgres.DeleteVote"

	res, err := s.db.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1 AND user_id = $2`, pollID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrVoteNotFound)
	}

	return nil
}

// Atomic runs fn inside a transaction. Any error from fn rolls back both
// the ledger insert and the tally increment.
func (s *Storage) Atomic(ctx context.Context, fn func(ctx context.Context, w repo.VoteWriter) error) error {
	const op = "storage.postgres.Atomic"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(ctx, txWriter{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// CountVotes returns the number of ledger entries of a poll.
func (s *Storage) CountVotes(ctx context.Context, pollID string) (int64, error) {
	const op = "storage.postgres.CountVotes"

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE poll_id = $1`, pollID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) SaveUser(ctx context.Context, user entity.User) error {
	const op = "storage.postgres.SaveUser"

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO users(id, email, pass_hash, created_at) VALUES($1, $2, $3, $4)")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, user.ID, user.Email, user.PassHash, user.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, repo.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) User(ctx context.Context, email string) (entity.User, error) {
	const op = "storage.postgres.User"

	stmt, err := s.db.PrepareContext(ctx, "SELECT id, email, pass_hash, created_at FROM users WHERE email = $1")
	if err != nil {
		return entity.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var user entity.User
	err = stmt.QueryRowContext(ctx, email).Scan(&user.ID, &user.Email, &user.PassHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, fmt.Errorf("%s: %w", op, repo.ErrUserNotFound)
		}
		return entity.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

type txWriter struct {
	tx *sql.Tx
}

func (w txWriter) SaveVote(ctx context.Context, vote entity.Vote) error {
	return saveVote(ctx, w.tx, vote)
}

func (w txWriter) IncrementTally(ctx context.Context, pollID, optionID string) error {
	return incrementTally(ctx, w.tx, pollID, optionID)
}

func saveVote(ctx context.Context, db execer, vote entity.Vote) error {
	const op = "storage.postgres.SaveVote"

	query := `INSERT INTO votes (poll_id, user_id, option_id, voted_at) VALUES ($1, $2, $3, $4)`

	if _, err := db.ExecContext(ctx, query, vote.PollID, vote.UserID, vote.OptionID, vote.VotedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, repo.ErrDuplicateVote)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func incrementTally(ctx context.Context, db execer, pollID, optionID string) error {
	const op = "storage.postgres.IncrementTally"

	res, err := db.ExecContext(ctx, `UPDATE options SET votes = votes + 1 WHERE poll_id = $1 AND id = $2`, pollID, optionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
	}

	return nil
}

func insertOptions(ctx context.Context, db execer, pollID string, options []entity.Option) error {
	query := `INSERT INTO options (id, poll_id, position, text, votes) VALUES ($1, $2, $3, $4, $5)`

	for i, option := range options {
		if _, err := db.ExecContext(ctx, query, option.ID, pollID, i, option.Text, option.Votes); err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}

	return nil
}
