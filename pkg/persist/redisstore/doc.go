// Package redisstore keeps entity states in Redis with
// github.com/redis/go-redis/v9.
//
// Store implements persist.ConditionalStore: SaveIf watches the key, checks
// the expected state and writes inside MULTI/EXEC, turning a lost race into
// persist.ErrStateConflict.
//
// Publisher is an after-persist listener that announces committed changes on
// a pub/sub channel as JSON; Subscribe reads them back.
//
//	store := redisstore.New[int64, OrderState](client, "order", persist.StringCodec[OrderState]{})
//	pub := redisstore.NewPublisher[int64, OrderState, OrderEvent](client, "orders.changes", persist.StringCodec[OrderState]{})
//	handler := persist.NewHandler[int64](def, store, persist.WithListeners[int64, OrderState, OrderEvent](pub))
package redisstore
