// Package redis connects a go-redis client with retries and exposes a
// readiness probe. Configuration is read from REDIS_* variables.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
