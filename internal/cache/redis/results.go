// Package redis caches final results of closed polls as Redis hashes.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "results:"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

type resultsHeader struct {
	ID        string    `mapstructure:"id"`
	Question  string    `mapstructure:"question"`
	CreatedBy string    `mapstructure:"created_by"`
	StartDate time.Time `mapstructure:"start_date"`
	EndDate   time.Time `mapstructure:"end_date"`
	CreatedAt time.Time `mapstructure:"created_at"`
	Options   int       `mapstructure:"options"`
}

type resultsOption struct {
	ID    string `mapstructure:"option_id"`
	Text  string `mapstructure:"text"`
	Votes int64  `mapstructure:"votes"`
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	const op = "cache.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Results returns the cached poll. ok is false on a miss or a partially
// expired entry.
func (c *Cache) Results(ctx context.Context, pollID string) (entity.Poll, bool, error) {
	const op = "cache.redis.Results"

	data, err := c.rdb.HGetAll(ctx, pollKey(pollID)).Result()
	if err != nil {
		return entity.Poll{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) == 0 {
		return entity.Poll{}, false, nil
	}

	var header resultsHeader
	if err := decode(data, &header); err != nil {
		return entity.Poll{}, false, fmt.Errorf("%s: %w", op, err)
	}

	pipe := c.rdb.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, header.Options)
	for i := range cmds {
		cmds[i] = pipe.HGetAll(ctx, optionKey(pollID, i))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return entity.Poll{}, false, fmt.Errorf("%s: %w", op, err)
	}

	poll := entity.Poll{
		ID:        header.ID,
		Question:  header.Question,
		Options:   make([]entity.Option, 0, header.Options),
		StartDate: header.StartDate,
		EndDate:   header.EndDate,
		CreatedBy: header.CreatedBy,
		CreatedAt: header.CreatedAt,
	}
	for _, cmd := range cmds {
		if len(cmd.Val()) == 0 {
			return entity.Poll{}, false, nil
		}
		var option resultsOption
		if err := decode(cmd.Val(), &option); err != nil {
			return entity.Poll{}, false, fmt.Errorf("%s: %w", op, err)
		}
		poll.Options = append(poll.Options, entity.Option(option))
	}

	return poll, true, nil
}

// SaveResults writes the poll and its options in one MULTI block.
func (c *Cache) SaveResults(ctx context.Context, poll entity.Poll) error {
	const op = "cache.redis.SaveResults"

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := pollKey(poll.ID)
		pipe.HSet(ctx, key, encodeHeader(poll))
		pipe.Expire(ctx, key, c.ttl)

		for i, option := range poll.Options {
			key := optionKey(poll.ID, i)
			pipe.HSet(ctx, key, map[string]any{
				"option_id": option.ID,
				"text":      option.Text,
				"votes":     strconv.FormatInt(option.Votes, 10),
			})
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func encodeHeader(poll entity.Poll) map[string]any {
	return map[string]any{
		"id":         poll.ID,
		"question":   poll.Question,
		"created_by": poll.CreatedBy,
		"start_date": poll.StartDate.UTC().Format(time.RFC3339Nano),
		"end_date":   poll.EndDate.UTC().Format(time.RFC3339Nano),
		"created_at": poll.CreatedAt.UTC().Format(time.RFC3339Nano),
		"options":    strconv.Itoa(len(poll.Options)),
	}
}

func decode(data map[string]string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

func pollKey(pollID string) string {
	return keyPrefix + pollID
}

func optionKey(pollID string, i int) string {
	return keyPrefix + pollID + ":option:" + strconv.Itoa(i)
}
