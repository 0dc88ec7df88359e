package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)

	envFilesOnce sync.Once
)

// LoadEnvFiles reads the given .env files into the process environment.
// Missing files are an error here; the implicit default .env used by Load is optional.
func LoadEnvFiles(paths ...string) error {
	var err error
	envFilesOnce.Do(func() {
		if len(paths) == 0 {
			_ = godotenv.Load()
			return
		}
		if loadErr := godotenv.Load(paths...); loadErr != nil {
			err = errors.Join(ErrEnvFile, loadErr)
		}
	})
	return err
}

// Load fills v from the environment. Each configuration type is parsed once;
// later calls for the same type receive the cached copy.
//
// Example:
//
//	type DatabaseConfig struct {
//		ConnectionString string `env:"PG_CONN_URL,required"`
//		MaxOpenConns     int32  `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//	}
//
//	var dbConfig DatabaseConfig
//	err := config.Load(&dbConfig)
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	_ = LoadEnvFiles()

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := Parse(v); err != nil {
		return err
	}
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Parse fills v from the current environment without touching the cache.
func Parse[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// ResetCache forgets every cached configuration. Intended for tests.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
