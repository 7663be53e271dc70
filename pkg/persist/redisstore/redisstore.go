package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
)

// Store keeps each entity state in its own string key,
// "<prefix>:<kind>:<id>". It implements persist.ConditionalStore using
// WATCH/MULTI so the check and the write are atomic.
type Store[ID, S comparable] struct {
	client redis.UniversalClient
	prefix string
	kind   string
	codec  persist.Codec[S]
	key    func(ID) string
}

// Option configures a Store.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix sets the key prefix. Default "fsm".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// New returns a store for entities of the given kind.
func New[ID, S comparable](client redis.UniversalClient, kind string, codec persist.Codec[S], opts ...Option) *Store[ID, S] {
	if client == nil {
		panic("redisstore: nil client")
	}
	if kind == "" {
		panic("redisstore: empty kind")
	}
	if codec == nil {
		panic("redisstore: nil codec")
	}
	o := options{prefix: "fsm"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[ID, S]{
		client: client,
		prefix: o.prefix,
		kind:   kind,
		codec:  codec,
		key:    persist.Key[ID],
	}
}

// Key returns the Redis key holding id.
func (s *Store[ID, S]) Key(id ID) string {
	return s.prefix + ":" + s.kind + ":" + s.key(id)
}

func (s *Store[ID, S]) Load(ctx context.Context, id ID) (S, error) {
	var zero S
	raw, err := s.client.Get(ctx, s.Key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, persist.ErrNotFound
		}
		return zero, err
	}
	return s.codec.Decode(raw)
}

// Save overwrites the state of id without expiry.
func (s *Store[ID, S]) Save(ctx context.Context, id ID, state S) error {
	raw, err := s.codec.Encode(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.Key(id), raw, 0).Err()
}

func (s *Store[ID, S]) SaveIf(ctx context.Context, id ID, expected, next S) error {
	rawExpected, err := s.codec.Encode(expected)
	if err != nil {
		return err
	}
	rawNext, err := s.codec.Encode(next)
	if err != nil {
		return err
	}

	key := s.Key(id)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return persist.ErrNotFound
			}
			return err
		}
		if current != rawExpected {
			return errors.Join(persist.ErrStateConflict, fmt.Errorf("%s is %s, expected %s", key, current, rawExpected))
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, rawNext, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return errors.Join(persist.ErrStateConflict, err)
	}
	return err
}

// Put is an alias of Save used for seeding.
func (s *Store[ID, S]) Put(ctx context.Context, id ID, state S) error {
	return s.Save(ctx, id, state)
}

// Delete removes id and reports whether it existed.
func (s *Store[ID, S]) Delete(ctx context.Context, id ID) (bool, error) {
	n, err := s.client.Del(ctx, s.Key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Entry is one stored entity as returned by List.
type Entry[S comparable] struct {
	ID    string
	State S
}

// List scans every key of this kind. Order is not defined.
func (s *Store[ID, S]) List(ctx context.Context) ([]Entry[S], error) {
	prefix := s.prefix + ":" + s.kind + ":"
	var out []Entry[S]

	iter := s.client.Scan(ctx, 0, prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		state, err := s.codec.Decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry[S]{ID: strings.TrimPrefix(key, prefix), State: state})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
