// Package config loads courtdesk settings from a YAML file, an optional
// .env file and COURTDESK_* environment variables, in increasing order of
// precedence.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/log"
)

// Environment variables that override the file.
const (
	EnvAPIURL         = "COURTDESK_API_URL"
	EnvStatePath      = "COURTDESK_STATE_PATH"
	EnvLogLevel       = "COURTDESK_LOG_LEVEL"
	EnvLogFormat      = "COURTDESK_LOG_FORMAT"
	EnvAddress        = "COURTDESK_ADDRESS"
	EnvAllowedOrigins = "COURTDESK_ALLOWED_ORIGINS" // comma separated
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

const (
	dirName       = ".courtdesk"
	fileName      = "config.yaml"
	stateFileName = "state.db"
)

// Config is the full courtdesk configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Toasts  ToastConfig   `yaml:"toasts"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	// Path is the SQLite file holding the persisted session.
	Path string `yaml:"path"`
	// Ephemeral keeps the session in memory only.
	Ephemeral bool `yaml:"ephemeral,omitempty"`
}

type ToastConfig struct {
	Duration time.Duration `yaml:"duration"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
	// AllowedOrigins lists browser origins, such as a front end dev server,
	// that may call the shell API cross-origin.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// Dir returns ~/.courtdesk.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigRead, "locate home directory", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns ~/.courtdesk/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	statePath := stateFileName
	if dir, err := Dir(); err == nil {
		statePath = filepath.Join(dir, stateFileName)
	}
	return &Config{
		API:     APIConfig{URL: "http://localhost:5000/api", Timeout: 30 * time.Second},
		Storage: StorageConfig{Path: statePath},
		Toasts:  ToastConfig{Duration: 5 * time.Second},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
		Server:  ServerConfig{Address: "127.0.0.1:8080"},
	}
}

// Load reads the configuration. An empty path means DefaultPath, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	return load(path, DotEnvFile, os.LookupEnv)
}

func load(path, dotenv string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return nil, err
		}
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, errors.Wrap(errors.ErrCodeConfigRead, "read config "+path, err).
			WithSuggestion("Run 'courtdesk config path' to see where the file is expected")
	}

	env, err := readDotEnv(dotenv)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	})

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewFileUnmarshalError(path, "YAML", err)
	}
	return nil
}

// readDotEnv parses file without touching the process environment. A
// missing file yields no values.
func readDotEnv(file string) (map[string]string, error) {
	if file == "" {
		return nil, nil
	}
	env, err := godotenv.Read(file)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewFileUnmarshalError(file, "dotenv", err)
	}
	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvAPIURL, &c.API.URL)
	set(EnvStatePath, &c.Storage.Path)
	set(EnvLogLevel, &c.Logging.Level)
	set(EnvLogFormat, &c.Logging.Format)
	set(EnvAddress, &c.Server.Address)
	if v, ok := lookup(EnvAllowedOrigins); ok && v != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate reports the first invalid setting as a CONFIG-003 error.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigInvalidError(fmt.Sprintf("api.url %q is not an http(s) URL", c.API.URL))
	}
	if c.API.Timeout <= 0 {
		return errors.NewConfigInvalidError("api.timeout must be positive")
	}
	if c.Toasts.Duration <= 0 {
		return errors.NewConfigInvalidError("toasts.duration must be positive")
	}
	if !c.Storage.Ephemeral && c.Storage.Path == "" {
		return errors.NewConfigInvalidError("storage.path is empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("logging.level %q is unknown", c.Logging.Level))
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return errors.NewConfigInvalidError(fmt.Sprintf("logging.format %q is not text or json", c.Logging.Format))
	}
	if c.Server.Address == "" {
		return errors.NewConfigInvalidError("server.address is empty")
	}
	for _, o := range c.Server.AllowedOrigins {
		u, err := url.Parse(o)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.Path != "" {
			return errors.NewConfigInvalidError(fmt.Sprintf("server.allowed_origins entry %q is not an http(s) origin", o))
		}
	}
	return nil
}

// LogConfig turns the logging section into a logger configuration.
func (c *Config) LogConfig() log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(c.Logging.Level)
	cfg.Format = log.ParseFormat(c.Logging.Format)
	return cfg
}

// YAML renders the configuration as it would be written to disk.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeConfigRead, "create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeConfigRead, "write config "+path, err)
	}
	return nil
}
