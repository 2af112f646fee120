package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tessro/plexwatch/internal/config"
	perrors "github.com/tessro/plexwatch/internal/errors"
	"github.com/tessro/plexwatch/internal/wizard"
)

var (
	configInitInteractive bool
	configInitForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing plexwatch configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values.

With --interactive, prompts for the server URL, token, and refresh interval.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  server.url              Plex server base URL
  server.token            X-Plex-Token sent with every request
  server.timeout          Request timeout in seconds
  watch.interval          Refresh interval in milliseconds
  watch.clear_screen      Clear the screen between refreshes (true/false)
  display.color           Colored output (true/false)
  display.progress_width  Number of markers in the progress bar
  display.thumbnails      Show the thumbnail path (true/false)
  display.footer          Show the "updated" footer (true/false)
  log.level               debug, info, warn, or error
  log.file                Log file path

Examples:
  plexwatch config set server.url http://192.168.1.10:32400
  plexwatch config set watch.interval 5000`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getConfigPath()
		if JSONOutput() {
			_, err := os.Stat(path)
			return printJSON(os.Stdout, map[string]any{
				"path":   path,
				"exists": err == nil,
			})
		}
		fmt.Println(path)
		return nil
	},
}

// configKinds maps settable keys to their value type.
var configKinds = map[string]string{
	"server.url":             "string",
	"server.token":           "string",
	"server.timeout":         "int",
	"watch.interval":         "int",
	"watch.clear_screen":     "bool",
	"display.color":          "bool",
	"display.progress_width": "int",
	"display.thumbnails":     "bool",
	"display.footer":         "bool",
	"log.level":              "string",
	"log.file":               "string",
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "prompt for connection settings")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(os.Stdout, cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return perrors.WithSuggestion(
			fmt.Errorf("config file already exists at %s", configPath),
			"Use --force to overwrite it, or 'plexwatch config set' to change single values")
	}

	newCfg := config.Default()
	if configInitInteractive {
		ui := wizard.NewInteractive()
		if !ui.CanInteract() {
			return fmt.Errorf("--interactive needs a terminal")
		}
		answered, err := ui.PromptSetup(newCfg)
		if err != nil {
			return err
		}
		newCfg = answered
	}

	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrInvalidConfig, err)
	}

	if err := writeConfig(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(os.Stdout, map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	if newCfg.Server.Token == "" {
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Set server.url if your server is not on this machine")
		fmt.Println("  2. Set server.token, or export PLEXWATCH_SERVER_TOKEN")
	}
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path := config.FindConfigFile(); path != "" {
		return path
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if err := setConfigValue(configPath, key, value); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(os.Stdout, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue updates one key in the config file at path, creating the
// file if needed. The result must still validate.
func setConfigValue(path, key, value string) error {
	kind, ok := configKinds[key]
	if !ok {
		return perrors.WithSuggestion(
			fmt.Errorf("unknown config key: %s", key),
			"Run 'plexwatch config set --help' for the list of keys")
	}

	typed, err := parseConfigValue(kind, value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	rawConfig := make(map[string]any)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read config: %w", err)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := rawConfig[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typed

	// Round-trip through the typed config to catch invalid values.
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(rawConfig); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var check config.Config
	if _, err := toml.Decode(buf.String(), &check); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrInvalidConfig, err)
	}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrInvalidConfig, err)
	}

	return writeConfig(path, rawConfig)
}

func parseConfigValue(kind, value string) (any, error) {
	switch kind {
	case "int":
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.New("value must be an integer")
		}
		return i, nil
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.New("value must be true or false")
		}
		return b, nil
	default:
		return value, nil
	}
}

// writeConfig encodes v as TOML to path with a header comment.
func writeConfig(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	return encodeConfig(f, v)
}

func encodeConfig(w io.Writer, v any) error {
	_, _ = fmt.Fprintln(w, "# plexwatch configuration")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
