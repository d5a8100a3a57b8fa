package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/tapedeck/internal/config"
	tderrors "github.com/tessro/tapedeck/internal/errors"
	"github.com/tessro/tapedeck/internal/wizard"
)

var configInitDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing tapedeck configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file. In a terminal this asks a few
questions first; use --defaults to write the defaults as-is.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
` + configKeyHelp() + `
Examples:
  tapedeck config set playlist.path ~/Music/road-trip.toml
  tapedeck config set playback.volume 60
  tapedeck config set remote.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write defaults without prompting")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
)

// configKeys lists the keys "config set" accepts and their value types.
var configKeys = map[string]keyKind{
	"playlist.path":          kindString,
	"playlist.placeholder":   kindString,
	"playback.autoplay":      kindBool,
	"playback.start_index":   kindInt,
	"playback.skip_delay":    kindInt,
	"playback.tick_interval": kindInt,
	"playback.volume":        kindInt,
	"tui.theme":              kindString,
	"tui.artwork":            kindBool,
	"tui.mouse":              kindBool,
	"remote.enabled":         kindBool,
	"remote.addr":            kindString,
	"log.level":              kindString,
	"log.file":               kindString,
	"log.max_size":           kindInt,
	"log.max_backups":        kindInt,
	"log.max_age":            kindInt,
	"log.compress":           kindBool,
}

func configKeyHelp() string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString("  " + k + "\n")
	}
	return sb.String()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if JSONOutput() {
		_, err := os.Stat(path)
		return printJSON(map[string]any{"path": path, "exists": err == nil})
	}
	fmt.Println(path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return tderrors.WithSuggestion(
			fmt.Errorf("%w at %s", tderrors.ErrConfigNotFound, configPath),
			"Run 'tapedeck config init' first")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if !configInitDefaults && !JSONOutput() {
		if err := wizard.NewInteractive().PromptSettings(newCfg); err != nil {
			return err
		}
	}

	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point playlist.path at a playlist file (see 'tapedeck config set')")
	fmt.Println("  2. Run 'tapedeck play'")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return tderrors.WithSuggestion(
			fmt.Errorf("%w at %s", tderrors.ErrConfigNotFound, configPath),
			"Run 'tapedeck config init' first")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	rawConfig := map[string]any{}
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := setConfigValue(rawConfig, key, value); err != nil {
		return err
	}

	// Validate the result before touching the file.
	var check strings.Builder
	if err := toml.NewEncoder(&check).Encode(rawConfig); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	updated := config.Default()
	if _, err := toml.Decode(check.String(), updated); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	updated.ApplyDefaults()
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %w", tderrors.ErrInvalidConfig, err)
	}

	if err := writeConfigFile(configPath, rawConfig); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue stores value under the dotted key in raw, converted to
// the key's type.
func setConfigValue(raw map[string]any, key, value string) error {
	kind, ok := configKeys[key]
	if !ok {
		return tderrors.WithSuggestion(
			fmt.Errorf("unknown config key %q", key),
			"Run 'tapedeck config set --help' for the list of keys")
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}

	switch kind {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		sectionMap[field] = i
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("value must be true or false for %s", key)
		}
		sectionMap[field] = b
	default:
		sectionMap[field] = value
	}
	return nil
}

func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Tapedeck Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
