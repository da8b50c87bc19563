// Package cache memoizes expensive functions for a bounded time.
//
// A memoized function is keyed by its name and a hash of its arguments. Each
// result is persisted as an artifact in a Store:
//
//	{"name": ..., "key": ..., "created": <RFC 3339>, "value": <result>}
//
// An artifact is fresh while its age is at most the validity duration. The
// cache never fails a call: unreadable artifacts are misses and failed writes
// are logged.
//
// There is no locking. Concurrent callers with the same arguments may both
// compute and the last writer wins.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultValidity is how long an artifact stays fresh.
const DefaultValidity = 10 * time.Minute

// Lookup results reported to the Observer.
const (
	ResultHit     = "hit"     // fresh artifact returned
	ResultMiss    = "miss"    // no usable artifact
	ResultExpired = "expired" // artifact older than validity
	ResultRefresh = "refresh" // cache bypassed by the caller
)

// Status is the state of an artifact at lookup time.
type Status int

const (
	Absent Status = iota
	Fresh
	Stale
)

func (s Status) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Observer is notified of every lookup.
type Observer interface {
	ObserveCacheLookup(name, result string)
}

// Cache holds the shared configuration of memoized functions.
type Cache struct {
	store    Store
	validity time.Duration
	now      func() time.Time
	log      zerolog.Logger
	observer Observer
}

// Option configures a Cache.
type Option func(*Cache)

// WithValidity sets the freshness duration.
func WithValidity(d time.Duration) Option { return func(c *Cache) { c.validity = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// WithLogger sets the logger used for cache events.
func WithLogger(log zerolog.Logger) Option { return func(c *Cache) { c.log = log } }

// WithObserver sets the lookup observer.
func WithObserver(o Observer) Option { return func(c *Cache) { c.observer = o } }

// New returns a Cache persisting artifacts in store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:    store,
		validity: DefaultValidity,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validity returns the freshness duration.
func (c *Cache) Validity() time.Duration { return c.validity }

// Key returns the cache key of args: the hex sha1 of their JSON encoding.
// Equal argument values always get equal keys.
func Key(args any) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha1.Sum(data)), nil
}

// artifact is the persisted form of a result.
type artifact struct {
	Name    string          `json:"name"`
	Key     string          `json:"key"`
	Created time.Time       `json:"created"`
	Value   json.RawMessage `json:"value"`
}

// Wrap memoizes fn under name.
//
// The returned function takes an extra useCache flag, which is not part of the
// key. With useCache false, fn is always called and its result replaces the
// artifact. With useCache true, a fresh artifact is returned without calling
// fn; otherwise fn is called and its result stored.
//
// Errors from fn are returned as is and nothing is stored.
func Wrap[A, T any](c *Cache, name string, fn func(ctx context.Context, args A) (T, error)) func(ctx context.Context, args A, useCache bool) (T, error) {
	return func(ctx context.Context, args A, useCache bool) (T, error) {
		log := c.log.With().Str("cache", name).Logger()

		key, err := Key(args)
		if err != nil {
			log.Warn().Err(err).Msg("cannot derive cache key, caching disabled for this call")
			return fn(ctx, args)
		}
		log = log.With().Str("key", key).Logger()

		if !useCache {
			c.observe(name, ResultRefresh)
			log.Debug().Msg("cache bypassed")
		} else {
			value, status, ok := lookup[T](ctx, c, name, key, log)
			switch {
			case ok:
				c.observe(name, ResultHit)
				log.Debug().Msg("cache hit")
				return value, nil
			case status == Stale:
				c.observe(name, ResultExpired)
				log.Debug().Msg("cache expired")
			default:
				c.observe(name, ResultMiss)
				log.Debug().Msg("cache miss")
			}
		}

		value, err := fn(ctx, args)
		if err != nil {
			return value, err
		}
		if err := c.save(ctx, name, key, value); err != nil {
			log.Warn().Err(err).Msg("cache write failed (ignored)")
		}
		return value, nil
	}
}

// lookup returns the stored value when it is fresh and decodable.
func lookup[T any](ctx context.Context, c *Cache, name, key string, log zerolog.Logger) (value T, status Status, ok bool) {
	a, status := c.load(ctx, name, key, log)
	if status != Fresh {
		return value, status, false
	}
	if err := json.Unmarshal(a.Value, &value); err != nil {
		log.Warn().Err(err).Msg("cannot decode cached value, ignoring it")
		return value, Absent, false
	}
	return value, Fresh, true
}

// Status returns the state of the artifact (name, key) now.
func (c *Cache) Status(ctx context.Context, name, key string) Status {
	_, s := c.load(ctx, name, key, c.log)
	return s
}

func (c *Cache) load(ctx context.Context, name, key string, log zerolog.Logger) (artifact, Status) {
	data, err := c.store.Load(ctx, name, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("cannot read cache, ignoring it")
		}
		return artifact{}, Absent
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		log.Warn().Err(err).Msg("cannot decode cache artifact, ignoring it")
		return artifact{}, Absent
	}
	if a.Name != name || a.Key != key || a.Created.IsZero() {
		log.Warn().Msg("cache artifact does not match its location, ignoring it")
		return artifact{}, Absent
	}
	if c.now().Sub(a.Created) > c.validity {
		return a, Stale
	}
	return a, Fresh
}

func (c *Cache) save(ctx context.Context, name, key string, value any) error {
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(artifact{Name: name, Key: key, Created: c.now(), Value: v}, "", "  ")
	if err != nil {
		return err
	}
	return c.store.Save(ctx, name, key, data)
}

func (c *Cache) observe(name, result string) {
	if c.observer != nil {
		c.observer.ObserveCacheLookup(name, result)
	}
}
