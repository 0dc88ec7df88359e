package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/winery/pkg/config"
	"github.com/dmitrymomot/winery/pkg/logger"
	"github.com/dmitrymomot/winery/pkg/redis"
	"github.com/dmitrymomot/winery/svc/fermentation"
)

// Lock backends accepted by LOCK_BACKEND.
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// AppConfig holds the settings shared by every command.
type AppConfig struct {
	Name        string        `env:"APP_NAME" envDefault:"winery"`
	Env         string        `env:"APP_ENV" envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL"` // overrides the environment preset when set
	LockBackend string        `env:"LOCK_BACKEND" envDefault:"memory"`
	LockTTL     time.Duration `env:"LOCK_TTL"` // overrides REDIS_LOCK_TTL when set

	SugarTrendTolerance float64 `env:"SUGAR_TREND_TOLERANCE" envDefault:"0"`
	EnforceTimeline     bool    `env:"ENFORCE_FERMENTATION_TIMELINE" envDefault:"true"`

	ImportDir string `env:"IMPORT_LOCAL_DIR" envDefault:"."` // local import paths are resolved inside this directory
}

// OrchestratorOptions translates the validation settings.
func (c AppConfig) OrchestratorOptions() []fermentation.OrchestratorOption {
	opts := []fermentation.OrchestratorOption{fermentation.WithSugarTolerance(c.SugarTrendTolerance)}
	if c.EnforceTimeline {
		opts = append(opts, fermentation.WithTimelineCheck())
	}
	return opts
}

func loadAppConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return AppConfig{}, err
	}
	switch cfg.LockBackend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return AppConfig{}, fmt.Errorf("%w: %q", ErrUnknownLockBackend, cfg.LockBackend)
	}
	return cfg, nil
}

func newLogger(cfg AppConfig, w io.Writer) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithOutput(w),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	return logger.New(opts...)
}

// newLocker returns the configured batch lock and a function releasing its resources.
func newLocker(ctx context.Context, cfg AppConfig, log *slog.Logger) (fermentation.Locker, func(), error) {
	if cfg.LockBackend != LockBackendRedis {
		return fermentation.NewMemoryLocker(), func() {}, nil
	}

	var rcfg redis.Config
	if err := config.Load(&rcfg); err != nil {
		return nil, nil, err
	}
	client, err := redis.Connect(ctx, rcfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close redis client", logger.Error(err))
		}
	}

	locker := redis.NewLocker(client, lockerOptions(cfg, rcfg)...)
	log.DebugContext(ctx, "using redis lock", logger.Component("redis"))
	return locker, closeFn, nil
}

func lockerOptions(cfg AppConfig, rcfg redis.Config) []redis.LockerOption {
	opts := []redis.LockerOption{redis.WithLockConfig(rcfg)}
	if cfg.LockTTL > 0 {
		opts = append(opts, redis.WithLockTTL(cfg.LockTTL))
	}
	return opts
}
