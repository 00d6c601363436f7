package repo

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/storage"
)

const configKey = "config.toml"

// Config stores repository-local settings, persisted as .gitlet/config.toml.
type Config struct {
	Core    CoreConfig    `toml:"core"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

type CoreConfig struct {
	// Hash is the digest algorithm; fixed when the repository is created.
	Hash          string `toml:"hash"`
	DefaultBranch string `toml:"default_branch"`
}

type StorageConfig struct {
	// Compression is "none" or "zstd".
	Compression string `toml:"compression"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Core:    CoreConfig{Hash: object.HashSHA256, DefaultBranch: "master"},
		Storage: StorageConfig{Compression: "none"},
		Log:     LogConfig{Level: "warn"},
	}
}

// Validate fills empty fields with defaults and rejects unknown values.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if strings.TrimSpace(c.Core.Hash) == "" {
		c.Core.Hash = def.Core.Hash
	}
	if strings.TrimSpace(c.Core.DefaultBranch) == "" {
		c.Core.DefaultBranch = def.Core.DefaultBranch
	}
	if strings.TrimSpace(c.Storage.Compression) == "" {
		c.Storage.Compression = def.Storage.Compression
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = def.Log.Level
	}

	if _, err := object.NewHasher(c.Core.Hash); err != nil {
		return fmt.Errorf("config: core.hash: %w", err)
	}
	switch c.Storage.Compression {
	case "none", "zstd":
	default:
		return fmt.Errorf("config: storage.compression: unknown value %q", c.Storage.Compression)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if err := validateBranchName(c.Core.DefaultBranch); err != nil {
		return fmt.Errorf("config: core.default_branch: %w", err)
	}
	return nil
}

// LogLevel returns the configured log level, falling back to warn.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

func (c *Config) storeOptions() ([]object.StoreOption, error) {
	h, err := object.NewHasher(c.Core.Hash)
	if err != nil {
		return nil, err
	}
	return []object.StoreOption{
		object.WithHasher(h),
		object.WithCompression(c.Storage.Compression == "zstd"),
	}, nil
}

// readConfig loads the config from the backend. A missing config returns
// the defaults.
func readConfig(b storage.Backend) (*Config, error) {
	cfg := DefaultConfig()
	data, err := b.Read("", configKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func writeConfig(b storage.Backend, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := b.Write("", configKey, buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
