package orders

import "time"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Config is the orders module configuration.
type Config struct {
	Driver     string        `env:"ORDERS_STORE" envDefault:"memory"`      // Driver is one of memory, postgres, redis, mongo.
	Kind       string        `env:"ORDERS_KIND" envDefault:"order"`        // Kind partitions order records in shared stores.
	Seed       bool          `env:"ORDERS_SEED" envDefault:"true"`         // Seed writes the demo orders at startup.
	Channel    string        `env:"ORDERS_CHANNEL"`                        // Channel enables change publishing (redis driver only).
	LockTTL    time.Duration `env:"ORDERS_LOCK_TTL" envDefault:"0s"`       // LockTTL enables per-order redis locks when positive.
	BatchLimit int           `env:"ORDERS_BATCH_LIMIT" envDefault:"8"`     // BatchLimit bounds concurrent applies in batch requests.
	Collection string        `env:"ORDERS_COLLECTION" envDefault:"orders"` // Collection is the mongo collection name.
}
