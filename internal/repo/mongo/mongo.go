// Package mongo stores polls as documents with embedded options. Votes go
// through a session transaction on replica sets and mongos; standalone
// servers report repo.ErrTxUnsupported.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	pollsCollection = "polls"
	votesCollection = "votes"
	usersCollection = "users"
)

type Storage struct {
	client      *mongo.Client
	polls       *mongo.Collection
	votes       *mongo.Collection
	users       *mongo.Collection
	txSupported bool
}

func New(ctx context.Context, uri, database string) (*Storage, error) {
	const op = "storage.mongo.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := client.Database(database)
	s := &Storage{
		client: client,
		polls:  db.Collection(pollsCollection),
		votes:  db.Collection(votesCollection),
		users:  db.Collection(usersCollection),
	}

	if s.txSupported, err = supportsTransactions(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// supportsTransactions reports whether the server is a replica set member
// or a mongos router.
func supportsTransactions(ctx context.Context, client *mongo.Client) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, fmt.Errorf("hello: %w", err)
	}

	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "poll_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("votes index: %w", err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	_, err = s.polls.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("polls indexes: %w", err)
	}

	return nil
}

func (s *Storage) SavePoll(ctx context.Context, poll entity.Poll) error {
	const op = "storage.mongo.SavePoll"

	if poll.Options == nil {
		poll.Options = []entity.Option{}
	}

	if _, err := s.polls.InsertOne(ctx, poll); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) PollByID(ctx context.Context, id string) (entity.Poll, error) {
	const op = "storage.mongo.PollByID"

	var poll entity.Poll
	if err := s.polls.FindOne(ctx, bson.M{"_id": id}).Decode(&poll); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return normalize(poll), nil
}

func (s *Storage) Polls(ctx context.Context, filter entity.PollFilter, now time.Time) ([]entity.Poll, error) {
	const op = "storage.mongo.Polls"

	query := bson.M{}
	switch filter {
	case entity.PollFilterActive:
		query = bson.M{"start_date": bson.M{"$lte": now}, "end_date": bson.M{"$gte": now}}
	case entity.PollFilterClosed:
		query = bson.M{"end_date": bson.M{"$lt": now}}
	}

	cur, err := s.polls.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	polls := make([]entity.Poll, 0)
	for cur.Next(ctx) {
		var poll entity.Poll
		if err := cur.Decode(&poll); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		polls = append(polls, normalize(poll))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor error: %w", op, err)
	}

	return polls, nil
}

func (s *Storage) UpdatePoll(ctx context.Context, poll entity.Poll, replaceOptions bool) error {
	const op = "storage.mongo.UpdatePoll"

	set := bson.M{
		"question":   poll.Question,
		"start_date": poll.StartDate,
		"end_date":   poll.EndDate,
	}
	if replaceOptions {
		set["options"] = poll.Options
	}

	res, err := s.polls.UpdateOne(ctx, bson.M{"_id": poll.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	return nil
}

// DeletePoll removes the poll and its ledger. Without transactions the
// poll document goes first so no new votes can land on it.
func (s *Storage) DeletePoll(ctx context.Context, id string) error {
	const op = "storage.mongo.DeletePoll"

	del := func(ctx context.Context) error {
		res, err := s.polls.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return repo.ErrPollNotFound
		}
		_, err = s.votes.DeleteMany(ctx, bson.M{"poll_id": id})
		return err
	}

	var err error
	if s.txSupported {
		err = s.withTransaction(ctx, del)
	} else {
		err = del(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) SaveVote(ctx context.Context, vote entity.Vote) error {
	const op = "storage.mongo.SaveVote"

	if _, err := s.votes.InsertOne(ctx, vote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, repo.ErrDuplicateVote)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteVote(ctx context.Context, pollID, userID string) error {
	const op = "storage.mongo.DeleteVote"

	res, err := s.votes.DeleteOne(ctx, bson.M{"poll_id": pollID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrVoteNotFound)
	}

	return nil
}

// IncrementTally bumps the matching embedded option with a positional $inc.
func (s *Storage) IncrementTally(ctx context.Context, pollID, optionID string) error {
	const op = "storage.mongo.IncrementTally"

	res, err := s.polls.UpdateOne(ctx,
		bson.M{"_id": pollID, "options.option_id": optionID},
		bson.M{"$inc": bson.M{"options.$.votes": 1}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
	}

	return nil
}

// Atomic runs fn in a session transaction. Writes made through the
// session context passed to fn join the transaction.
func (s *Storage) Atomic(ctx context.Context, fn func(ctx context.Context, w repo.VoteWriter) error) error {
	if !s.txSupported {
		return repo.ErrTxUnsupported
	}

	return s.withTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx, s)
	})
}

func (s *Storage) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})

	return err
}

// CountVotes returns the number of ledger entries of a poll.
func (s *Storage) CountVotes(ctx context.Context, pollID string) (int64, error) {
	const op = "storage.mongo.CountVotes"

	n, err := s.votes.CountDocuments(ctx, bson.M{"poll_id": pollID})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) SaveUser(ctx context.Context, user entity.User) error {
	const op = "storage.mongo.SaveUser"

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, repo.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) User(ctx context.Context, email string) (entity.User, error) {
	const op = "storage.mongo.User"

	var user entity.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.User{}, fmt.Errorf("%s: %w", op, repo.ErrUserNotFound)
		}
		return entity.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// normalize converts stored datetimes back to UTC; the driver decodes
// them in local time.
func normalize(poll entity.Poll) entity.Poll {
	poll.StartDate = poll.StartDate.UTC()
	poll.EndDate = poll.EndDate.UTC()
	poll.CreatedAt = poll.CreatedAt.UTC()
	return poll
}
