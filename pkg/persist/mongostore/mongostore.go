package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
)

type document struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Entity    string    `bson:"entity"`
	State     string    `bson:"state"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Entry is one stored entity as returned by List.
type Entry[S comparable] struct {
	ID        string
	State     S
	UpdatedAt time.Time
}

// Store keeps one document per entity, keyed "<kind>:<id>". It implements
// persist.ConditionalStore with a filtered UpdateOne.
type Store[ID, S comparable] struct {
	coll  *mongo.Collection
	kind  string
	codec persist.Codec[S]
	key   func(ID) string
	now   func() time.Time
}

// New returns a store for entities of the given kind in coll.
func New[ID, S comparable](coll *mongo.Collection, kind string, codec persist.Codec[S]) *Store[ID, S] {
	if coll == nil {
		panic("mongostore: nil collection")
	}
	if kind == "" {
		panic("mongostore: empty kind")
	}
	if codec == nil {
		panic("mongostore: nil codec")
	}
	return &Store[ID, S]{
		coll:  coll,
		kind:  kind,
		codec: codec,
		key:   persist.Key[ID],
		now:   time.Now,
	}
}

// EnsureIndexes creates the (kind, state) index used by List and reporting queries.
func (s *Store[ID, S]) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "kind", Value: 1}, {Key: "state", Value: 1}},
	})
	return err
}

func (s *Store[ID, S]) docID(id ID) string {
	return s.kind + ":" + s.key(id)
}

func (s *Store[ID, S]) Load(ctx context.Context, id ID) (S, error) {
	var zero S
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": s.docID(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, persist.ErrNotFound
		}
		return zero, err
	}
	return s.codec.Decode(doc.State)
}

// Save upserts the state of id.
func (s *Store[ID, S]) Save(ctx context.Context, id ID, state S) error {
	raw, err := s.codec.Encode(state)
	if err != nil {
		return err
	}
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": s.docID(id)},
		bson.M{"$set": bson.M{
			"kind":       s.kind,
			"entity":     s.key(id),
			"state":      raw,
			"updated_at": s.now().UTC(),
		}},
		options.UpdateOne().SetUpsert(true),
	)
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

	docID := s.docID(id)
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": docID, "state": rawExpected},
		bson.M{"$set": bson.M{"state": rawNext, "updated_at": s.now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": docID})
	if err != nil {
		return err
	}
	if n == 0 {
		return persist.ErrNotFound
	}
	return errors.Join(persist.ErrStateConflict, fmt.Errorf("%s is no longer %s", docID, rawExpected))
}

// Put is an alias of Save used for seeding.
func (s *Store[ID, S]) Put(ctx context.Context, id ID, state S) error {
	return s.Save(ctx, id, state)
}

// Delete removes id and reports whether it existed.
func (s *Store[ID, S]) Delete(ctx context.Context, id ID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.docID(id)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// List returns every entity of this kind ordered by entity id.
func (s *Store[ID, S]) List(ctx context.Context) ([]Entry[S], error) {
	cur, err := s.coll.Find(ctx, bson.M{"kind": s.kind}, options.Find().SetSort(bson.D{{Key: "entity", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Entry[S]
	for cur.Next(ctx) {
		var doc document
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		state, err := s.codec.Decode(doc.State)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry[S]{ID: doc.Entity, State: state, UpdatedAt: doc.UpdatedAt})
	}
	return out, cur.Err()
}
