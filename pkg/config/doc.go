// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env/v11, with optional .env files read
// through github.com/joho/godotenv.
//
// Every package that needs configuration exposes a Config struct with env
// tags (pg.Config, redis.Config, logger.Config, ...) and the binary loads them:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// Load caches the parsed value per type, so repeated calls are cheap and
// consistent. Parse skips the cache and Reset clears it, which is what tests use
// after changing the environment.
//
// Errors:
//
//   - ErrParsingConfig: a variable is missing or malformed.
//   - ErrLoadingEnvFile: an explicitly named .env file could not be read.
//   - ErrNilPointer: nil destination.
package config
