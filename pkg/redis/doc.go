// Package redis connects to Redis with github.com/redis/go-redis/v9 and
// exposes a health probe. The client it returns backs the redis entity store,
// the distributed locker and the transition publisher.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	server.Run(ctx, router, httpserver.WithHealthcheck("redis", redis.Healthcheck(client)))
package redis
