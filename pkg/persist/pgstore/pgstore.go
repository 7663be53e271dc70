package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/pg"
)

// Migrations creates the entity_states table. Apply it with
// pg.Migrate(ctx, pool, cfg, pgstore.Migrations, "migrations", log).
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DB is the subset of *pgxpool.Pool the store needs. A pgx.Tx works too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Record is one row of entity_states.
type Record[S comparable] struct {
	ID        string
	State     S
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store keeps entity states in the entity_states table, one partition per
// kind. It implements persist.ConditionalStore.
type Store[ID, S comparable] struct {
	db    DB
	kind  string
	codec persist.Codec[S]
	key   func(ID) string
}

// New returns a store for entities of the given kind.
func New[ID, S comparable](db DB, kind string, codec persist.Codec[S]) *Store[ID, S] {
	if db == nil {
		panic("pgstore: nil db")
	}
	if kind == "" {
		panic("pgstore: empty kind")
	}
	if codec == nil {
		panic("pgstore: nil codec")
	}
	return &Store[ID, S]{db: db, kind: kind, codec: codec, key: persist.Key[ID]}
}

const (
	loadQuery = `SELECT state FROM entity_states WHERE kind = $1 AND id = $2`

	saveQuery = `
INSERT INTO entity_states (kind, id, state)
VALUES ($1, $2, $3)
ON CONFLICT (kind, id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`

	saveIfQuery = `
UPDATE entity_states SET state = $4, updated_at = now()
WHERE kind = $1 AND id = $2 AND state = $3`

	existsQuery = `SELECT EXISTS (SELECT 1 FROM entity_states WHERE kind = $1 AND id = $2)`

	deleteQuery = `DELETE FROM entity_states WHERE kind = $1 AND id = $2`

	listQuery = `
SELECT id, state, created_at, updated_at FROM entity_states
WHERE kind = $1 ORDER BY created_at, id`
)

func (s *Store[ID, S]) Load(ctx context.Context, id ID) (S, error) {
	var zero S
	var raw string
	if err := s.db.QueryRow(ctx, loadQuery, s.kind, s.key(id)).Scan(&raw); err != nil {
		if pg.IsNotFoundError(err) {
			return zero, persist.ErrNotFound
		}
		return zero, err
	}
	return s.codec.Decode(raw)
}

// Save upserts the state of id.
func (s *Store[ID, S]) Save(ctx context.Context, id ID, state S) error {
	raw, err := s.codec.Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, saveQuery, s.kind, s.key(id), raw)
	return err
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

	key := s.key(id)
	tag, err := s.db.Exec(ctx, saveIfQuery, s.kind, key, rawExpected, rawNext)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRow(ctx, existsQuery, s.kind, key).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return persist.ErrNotFound
	}
	return errors.Join(persist.ErrStateConflict, fmt.Errorf("%s %s is no longer %s", s.kind, key, rawExpected))
}

// Put is an alias of Save used for seeding.
func (s *Store[ID, S]) Put(ctx context.Context, id ID, state S) error {
	return s.Save(ctx, id, state)
}

// Delete removes id and reports whether a row was deleted.
func (s *Store[ID, S]) Delete(ctx context.Context, id ID) (bool, error) {
	tag, err := s.db.Exec(ctx, deleteQuery, s.kind, s.key(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns every entity of this kind in creation order.
func (s *Store[ID, S]) List(ctx context.Context) ([]Record[S], error) {
	rows, err := s.db.Query(ctx, listQuery, s.kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record[S]
	for rows.Next() {
		var (
			rec Record[S]
			raw string
		)
		if err := rows.Scan(&rec.ID, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if rec.State, err = s.codec.Decode(raw); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
