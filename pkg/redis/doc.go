// Package redis provides helpers for connecting to Redis and a small
// distributed lock built on it.
//
// The package wraps github.com/redis/go-redis/v9 and adds:
//
//   - Connect, which retries the initial connection using the supplied Config.
//   - Healthcheck, a closure suitable for liveness/readiness probes.
//   - Locker, a per-key mutual-exclusion lock (SET NX PX with a random token,
//     released by a compare-and-delete script) used to serialise writes that
//     must not interleave across processes, such as sample submissions for
//     one fermentation batch.
//
// Configuration is described by the Config struct whose fields are populated
// from REDIS_* environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	locker := redis.NewLocker(client, redis.WithLockTTL(cfg.LockTTL))
//
//	unlock, err := locker.Lock(ctx, "fermentation:"+id.String())
//	if err != nil {
//	    return err
//	}
//	defer unlock(context.WithoutCancel(ctx))
package redis
