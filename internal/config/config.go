// Package config resolves runtime settings from defaults, an optional TOML
// file, TODO_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sandeepkv93/todo/internal/storage"
)

type RuntimeConfig struct {
	StoreBackend string `toml:"store_backend"`
	StorePath    string `toml:"store_path"`
	StrictLoad   bool   `toml:"strict_load"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
	LogFile      string `toml:"log_file"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StoreBackend: string(storage.BackendSQLite),
		StorePath:    filepath.Join(DefaultDataDir(), "todo.db"),
		StrictLoad:   false,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// DefaultDataDir follows the XDG base directory layout.
func DefaultDataDir() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return filepath.Join(xdg, "todo")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "todo")
	}
	return ".todo"
}

// LoadFile overlays the TOML file at path onto base. Keys missing from the
// file keep their base values.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return base, fmt.Errorf("load config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return base, fmt.Errorf("load config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TODO_STORE"); ok {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODO_STORE_PATH"); ok {
		cfg.StorePath = v
	}
	if v, ok := getEnvBool("TODO_STRICT_LOAD"); ok {
		cfg.StrictLoad = v
	}
	if v, ok := getEnvString("TODO_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODO_LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODO_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg
}

// Load parses args and resolves the full configuration. The remaining
// positional arguments are returned for headless commands.
func Load(args []string) (RuntimeConfig, []string, error) {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file (env TODO_CONFIG)")
	backend := fs.String("store", "", "storage backend: sqlite, bolt or memory")
	storePath := fs.String("store-path", "", "path of the on-disk store")
	strict := fs.Bool("strict", false, "fail on a malformed stored list instead of starting empty")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "", "log format: text, json, logfmt")
	logFile := fs.String("log-file", "", "log file path")
	if err := fs.Parse(args); err != nil {
		return RuntimeConfig{}, nil, err
	}

	cfg := DefaultRuntimeConfig()
	path := strings.TrimSpace(*configPath)
	if path == "" {
		path, _ = getEnvString("TODO_CONFIG")
	}
	if path != "" {
		var err error
		if cfg, err = LoadFile(cfg, path); err != nil {
			return RuntimeConfig{}, nil, err
		}
	}

	cfg = RuntimeConfigFromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.StoreBackend = strings.ToLower(strings.TrimSpace(*backend))
		case "store-path":
			cfg.StorePath = strings.TrimSpace(*storePath)
		case "strict":
			cfg.StrictLoad = *strict
		case "log-level":
			cfg.LogLevel = strings.ToLower(strings.TrimSpace(*logLevel))
		case "log-format":
			cfg.LogFormat = strings.ToLower(strings.TrimSpace(*logFormat))
		case "log-file":
			cfg.LogFile = strings.TrimSpace(*logFile)
		}
	})

	cfg = cfg.finalize()
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// finalize normalizes values from every layer and fills in derived paths.
func (c RuntimeConfig) finalize() RuntimeConfig {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.StorePath = strings.TrimSpace(c.StorePath)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if strings.TrimSpace(c.LogFile) == "" {
		dir := filepath.Dir(c.StorePath)
		if strings.TrimSpace(c.StorePath) == "" {
			dir = DefaultDataDir()
		}
		c.LogFile = filepath.Join(dir, "todo.log")
	}
	return c
}

func (c RuntimeConfig) Validate() error {
	backend := storage.Backend(c.StoreBackend)
	if !backend.IsValid() {
		return fmt.Errorf("config: %w: %q", storage.ErrUnknownBackend, c.StoreBackend)
	}
	if backend.OnDisk() && strings.TrimSpace(c.StorePath) == "" {
		return errors.New("config: store path is required for on-disk backends")
	}
	return nil
}

// Storage returns the storage settings derived from c.
func (c RuntimeConfig) Storage() storage.Config {
	return storage.Config{Backend: storage.Backend(c.StoreBackend), Path: c.StorePath}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
