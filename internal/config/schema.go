package config

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Watch   WatchConfig   `toml:"watch" json:"watch"`
	Display DisplayConfig `toml:"display" json:"display"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServerConfig holds Plex server connection settings.
type ServerConfig struct {
	URL     string `toml:"url" json:"url"`
	Token   string `toml:"token" json:"token"`
	Timeout int    `toml:"timeout" json:"timeout"` // seconds
}

// WatchConfig holds polling loop settings.
type WatchConfig struct {
	Interval    int   `toml:"interval" json:"interval"` // milliseconds
	ClearScreen *bool `toml:"clear_screen" json:"clear_screen"`
}

// DisplayConfig holds terminal output settings.
type DisplayConfig struct {
	Color         *bool `toml:"color" json:"color"`
	ProgressWidth int   `toml:"progress_width" json:"progress_width"`
	Thumbnails    *bool `toml:"thumbnails" json:"thumbnails"`
	Footer        *bool `toml:"footer" json:"footer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}
