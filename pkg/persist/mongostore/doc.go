// Package mongostore keeps entity states in a MongoDB collection with
// go.mongodb.org/mongo-driver/v2.
//
// Documents look like {_id: "order:42", kind: "order", entity: "42",
// state: "PLACED", updated_at: ...}. SaveIf filters UpdateOne on the expected
// state, so a concurrent writer turns into persist.ErrStateConflict.
//
//	store := mongostore.New[int64, OrderState](db.Collection("entity_states"), "order", persist.StringCodec[OrderState]{})
package mongostore
