package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// SessionsPath is the Plex endpoint listing active playback sessions.
const SessionsPath = "/status/sessions"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.plexwatchrc, $XDG_CONFIG_HOME/plexwatch/config.toml, ~/.config/plexwatch/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".plexwatchrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "plexwatch", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// DefaultPath returns the path new config files are written to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".plexwatchrc"
	}
	return filepath.Join(home, ".plexwatchrc")
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("PLEXWATCH_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("PLEXWATCH_SERVER_TOKEN"); v != "" {
		cfg.Server.Token = v
	}
	if v := os.Getenv("PLEXWATCH_SERVER_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Timeout = i
		}
	}

	// Watch
	if v := os.Getenv("PLEXWATCH_WATCH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Watch.Interval = i
		}
	}

	// Display
	if v := os.Getenv("PLEXWATCH_DISPLAY_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Display.Color = &b
		}
	}

	// Log
	if v := os.Getenv("PLEXWATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PLEXWATCH_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// SessionsURL returns the sessions endpoint with the token as a query parameter.
func (c *Config) SessionsURL() (string, error) {
	u, err := url.Parse(strings.TrimRight(c.Server.URL, "/"))
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimRight(u.Path, "/") + SessionsPath
	if c.Server.Token != "" {
		q := u.Query()
		q.Set("X-Plex-Token", c.Server.Token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// PollInterval returns the watch interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Watch.Interval) * time.Millisecond
}

// RequestTimeout returns the server timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.Timeout) * time.Second
}

// LogPath returns the configured log file, or one under the user state directory.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "plexwatch.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "plexwatch", "plexwatch.log")
}
