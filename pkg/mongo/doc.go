// Package mongo connects to MongoDB with go.mongodb.org/mongo-driver/v2,
// using environment-driven configuration and a retrying constructor.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	store := mongostore.New[int64](db.Collection("entity_states"), "order", codec)
package mongo
