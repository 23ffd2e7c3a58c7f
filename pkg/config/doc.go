// Package config loads configuration structs from environment variables
// using github.com/caarlos0/env/v11 tags, with optional dotenv files read by
// github.com/joho/godotenv.
//
// Load caches one parsed value per struct type, so components may each load
// the configuration they need without re-reading the environment:
//
//	type AppConfig struct {
//		Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Parse skips the cache, which is what tests usually want.
package config
