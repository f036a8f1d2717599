// Package cache wraps a storage.Storage with a Redis read-through cache
// for single-person lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
)

const keyPrefix = "person:"

// errStale aborts a cache write whose generation moved under it.
var errStale = errors.New("cache entry is stale")

// Cached is a storage.Storage that serves GetPersonByID from Redis when
// it can. Writes go to the backend first and then drop the cached entry.
// Redis failures never fail a request; they are logged and the backend
// answers instead.
//
// Each id has a generation counter that every write bumps. A read-through
// fill only lands if the generation it saw before reading the backend is
// still current, so a fill racing an update or delete never resurrects
// the old record.
type Cached struct {
	next  storage.Storage
	redis *redis.Client
	ttl   time.Duration
	log   *slog.Logger
}

var _ storage.Storage = (*Cached)(nil)

// New wraps next with a cache on client. Entries live for ttl. A nil log
// falls back to slog.Default().
func New(next storage.Storage, client *redis.Client, ttl time.Duration, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, redis: client, ttl: ttl, log: log}
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func genKey(id int64) string {
	return key(id) + ":gen"
}

// CreatePerson goes straight to the backend; nothing is cached yet.
func (c *Cached) CreatePerson(ctx context.Context, name, email string) (int64, error) {
	return c.next.CreatePerson(ctx, name, email)
}

// GetPersonByID answers from Redis, falling back to the backend and
// filling the cache on a miss.
func (c *Cached) GetPersonByID(ctx context.Context, id int64) (types.Person, error) {
	raw, err := c.redis.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var person types.Person
		if jsonErr := json.Unmarshal(raw, &person); jsonErr == nil {
			return person, nil
		}
		c.log.Warn("discarding unreadable cache entry", slog.Int64("id", id))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("cache read failed", slog.Int64("id", id), slog.String("error", err.Error()))
	}

	// Read the generation before the backend so a write landing in
	// between is noticed by store.
	gen, genErr := c.generation(ctx, c.redis, id)

	person, err := c.next.GetPersonByID(ctx, id)
	if err != nil {
		return types.Person{}, err
	}

	if genErr == nil {
		c.store(ctx, person, gen)
	}
	return person, nil
}

// GetPeople is not cached.
func (c *Cached) GetPeople(ctx context.Context) ([]types.Person, error) {
	return c.next.GetPeople(ctx)
}

// UpdatePersonByID writes through and evicts the entry.
func (c *Cached) UpdatePersonByID(ctx context.Context, id int64, name, email string) (types.Person, error) {
	person, err := c.next.UpdatePersonByID(ctx, id, name, email)
	if err != nil {
		return types.Person{}, err
	}

	c.evict(ctx, id)
	return person, nil
}

// DeletePersonByID deletes through and evicts the entry.
func (c *Cached) DeletePersonByID(ctx context.Context, id int64) error {
	if err := c.next.DeletePersonByID(ctx, id); err != nil {
		return err
	}

	c.evict(ctx, id)
	return nil
}

// Close closes the backend and the Redis client.
func (c *Cached) Close() error {
	return errors.Join(c.next.Close(), c.redis.Close())
}

// getter is the part of *redis.Client and *redis.Tx that generation needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// generation returns the current write generation of id; 0 when no write
// has happened yet.
func (c *Cached) generation(ctx context.Context, cmd getter, id int64) (int64, error) {
	gen, err := cmd.Get(ctx, genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.log.Warn("cache generation read failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return gen, nil
}

// store caches person only if its generation is still gen. WATCH on the
// generation key makes the check and the SET atomic against evict.
func (c *Cached) store(ctx context.Context, person types.Person, gen int64) {
	raw, err := json.Marshal(person)
	if err != nil {
		return
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := c.generation(ctx, tx, person.ID)
		if err != nil {
			return err
		}
		if cur != gen {
			return errStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(person.ID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey(person.ID))

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("skipping stale cache fill", slog.Int64("id", person.ID))
	default:
		c.log.Warn("cache write failed", slog.Int64("id", person.ID), slog.String("error", err.Error()))
	}
}

// evict bumps the generation and drops the entry in one transaction.
func (c *Cached) evict(ctx context.Context, id int64) {
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(id))
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		c.log.Warn("cache evict failed", slog.Int64("id", id), slog.String("error", err.Error()))
	}
}

// Dial connects to Redis at addr and checks it answers.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache.Dial %s: %w", addr, err)
	}
	return client, nil
}
