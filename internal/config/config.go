// Package config loads busres settings from a YAML file, a .env file and
// BUSRES_* environment variables, in that order of increasing precedence,
// and validates the result against an embedded CUE schema.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
	"github.com/roach88/busreserve/internal/store"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "busres.yaml"

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
}

// Config holds every runtime setting.
type Config struct {
	Backend    string      `yaml:"backend" json:"backend"`
	DataDir    string      `yaml:"data_dir" json:"data_dir"`
	SQLitePath string      `yaml:"sqlite_path" json:"sqlite_path"`
	MySQLDSN   string      `yaml:"mysql_dsn" json:"mysql_dsn"`
	Redis      RedisConfig `yaml:"redis" json:"redis"`

	// Activity recorders. An empty value disables the recorder.
	ActivityDir string `yaml:"activity_dir" json:"activity_dir"`
	AMQPURL     string `yaml:"amqp_url" json:"amqp_url"`
	AMQPQueue   string `yaml:"amqp_queue" json:"amqp_queue"`

	SeatsPerBus int      `yaml:"seats_per_bus" json:"seats_per_bus"`
	FarePerSeat int      `yaml:"fare_per_seat" json:"fare_per_seat"`
	MaxAttempts int      `yaml:"max_attempts" json:"max_attempts"` // 0 = unbounded
	Buses       []string `yaml:"buses" json:"buses"`
}

// Default returns the built-in configuration: five buses of 32 seats,
// fare 200, unbounded retries, text files under ./data.
func Default() *Config {
	buses := make([]string, len(fleet.DefaultNames))
	copy(buses, fleet.DefaultNames)
	return &Config{
		Backend:     string(store.BackendFile),
		DataDir:     "data",
		SeatsPerBus: seat.DefaultCapacity,
		FarePerSeat: 200,
		Buses:       buses,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the given .env files (missing files are ignored) and the
// process environment, then validates it.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.fillDerived()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile decodes YAML strictly: unknown keys are errors.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// fillDerived sets paths that default relative to DataDir.
func (c *Config) fillDerived() {
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "busres.db")
	}
	if c.ActivityDir == "" {
		c.ActivityDir = filepath.Join(c.DataDir, "activity")
	}
}

// Catalog builds the fleet described by the config.
func (c *Config) Catalog() (*fleet.Catalog, error) {
	return fleet.New(c.Buses, c.SeatsPerBus)
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       store.Backend(c.Backend),
		Capacity:      c.SeatsPerBus,
		Dir:           c.DataDir,
		SQLitePath:    c.SQLitePath,
		MySQLDSN:      c.MySQLDSN,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
	}
}
