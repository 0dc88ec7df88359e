package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL should be in the format "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of attempts to connect.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`            // RetryInterval is the interval between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds the whole connect phase.

	LockTTL        time.Duration `env:"REDIS_LOCK_TTL" envDefault:"30s"`           // LockTTL is how long a lock survives a crashed holder.
	LockRetryDelay time.Duration `env:"REDIS_LOCK_RETRY_DELAY" envDefault:"50ms"`  // LockRetryDelay is the pause between acquisition attempts.
	LockKeyPrefix  string        `env:"REDIS_LOCK_PREFIX" envDefault:"winery:lock:"` // LockKeyPrefix namespaces lock keys.
}
