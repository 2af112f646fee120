package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://127.0.0.1:32400",
			Timeout: 10,
		},
		Watch: WatchConfig{
			Interval:    10000,
			ClearScreen: boolPtr(true),
		},
		Display: DisplayConfig{
			Color:         boolPtr(true),
			ProgressWidth: 40,
			Thumbnails:    boolPtr(true),
			Footer:        boolPtr(true),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Server
	if c.Server.URL == "" {
		c.Server.URL = d.Server.URL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = d.Server.Timeout
	}

	// Watch
	if c.Watch.Interval == 0 {
		c.Watch.Interval = d.Watch.Interval
	}
	if c.Watch.ClearScreen == nil {
		c.Watch.ClearScreen = d.Watch.ClearScreen
	}

	// Display
	if c.Display.Color == nil {
		c.Display.Color = d.Display.Color
	}
	if c.Display.ProgressWidth == 0 {
		c.Display.ProgressWidth = d.Display.ProgressWidth
	}
	if c.Display.Thumbnails == nil {
		c.Display.Thumbnails = d.Display.Thumbnails
	}
	if c.Display.Footer == nil {
		c.Display.Footer = d.Display.Footer
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// Enabled reports the value of an optional flag, treating nil as true.
func Enabled(b *bool) bool {
	return b == nil || *b
}
