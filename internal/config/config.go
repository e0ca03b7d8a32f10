package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/c2h5oh/datasize"
	"github.com/op/go-logging"
)

// Config holds the daemon settings.
type Config struct {
	Addr      string
	CacheSize int
	MaxBody   datasize.ByteSize
	LogLevel  logging.Level
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:      ":8080",
		CacheSize: 128,
		MaxBody:   8 * datasize.MB,
		LogLevel:  logging.INFO,
	}
}

// Load reads HUFFPACK_* variables from the environment on top of Default.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := getenv("HUFFPACK_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("HUFFPACK_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("HUFFPACK_CACHE_SIZE: invalid value %q", v)
		}
		cfg.CacheSize = n
	}
	if v := getenv("HUFFPACK_MAX_BODY"); v != "" {
		var size datasize.ByteSize
		if err := size.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("HUFFPACK_MAX_BODY: %w", err)
		}
		cfg.MaxBody = size
	}
	if v := getenv("HUFFPACK_LOG_LEVEL"); v != "" {
		level, err := logging.LogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("HUFFPACK_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}
