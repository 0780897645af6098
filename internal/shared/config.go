package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Credentials   CredentialsConfig   `toml:"credentials"`
	Database      DatabaseConfig      `toml:"database"`
	Export        ExportConfig        `toml:"export"`
	Notifications NotificationsConfig `toml:"notifications"`
	Sync          SyncConfig          `toml:"sync"`
}

// ServerConfig points at the Navidrome instance.
type ServerConfig struct {
	URL            string `toml:"url"`
	TrackSource    string `toml:"track_source"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CredentialsConfig contains the session identity.
//
// Token is a Navidrome UI token; obtaining it is left to the user.
type CredentialsConfig struct {
	Username string `toml:"username"`
	UserID   string `toml:"user_id"`
	Password string `toml:"password"`
	Token    string `toml:"token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig controls where playlist files are written.
type ExportConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// NotificationsConfig toggles desktop notifications in addition to log output.
type NotificationsConfig struct {
	Desktop bool `toml:"desktop"`
}

// SyncConfig bounds bulk resynchronization of external playlists.
type SyncConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// Timeout returns the HTTP timeout, defaulting to 30 seconds.
func (c ServerConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("%w: server.url is empty", ErrInvalidConfig)
	}
	switch c.Server.TrackSource {
	case "", "rest", "subsonic":
	default:
		return fmt.Errorf("%w: unknown server.track_source %q", ErrInvalidConfig, c.Server.TrackSource)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
