// Package config loads typed configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - `.env` files are read once per process (LoadEnvFiles, or implicitly the
//     default `.env` on first Load). Values already present in the
//     environment win over file values.
//   - Structs are filled from `env:"..."` / `envDefault:"..."` tags.
//   - Load caches each successfully parsed type so components asking for the
//     same struct share one parse; Parse skips the cache.
//
// Typical usage inside a binary:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Errors are wrapped with the package sentinels (ErrParsingConfig,
// ErrNilPointer, ErrEnvFile) so callers can classify them with errors.Is.
package config
