package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/config"
	tderrors "github.com/tessro/tapedeck/internal/errors"
	"github.com/tessro/tapedeck/internal/logger"
	"github.com/tessro/tapedeck/internal/remote"
)

var (
	cfgFile    string
	jsonOut    bool
	verbose    bool
	remoteAddr string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tapedeck",
	Short: "Play a playlist of audio files in the terminal",
	Long: `Tapedeck is a terminal playlist player. It plays a fixed list of tracks
with play/pause, seek, next and previous controls, and can be driven from
other shells through a local control server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/tapedeck/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "addr", "", "control server address (default: remote.addr)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", tderrors.ErrInvalidConfig, err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tderrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// newLogger builds the logger for a command. Console output goes to
// stderr unless the command owns the terminal.
func newLogger(console bool) (*zap.Logger, error) {
	opts := logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	if verbose {
		opts.Level = logger.DebugLevel
	}
	if console {
		opts.Console = os.Stderr
	} else if opts.File == "" {
		opts.File = config.DefaultLogFile()
	}
	return logger.New(opts)
}

// remoteClient returns a client for the running player's control server.
func remoteClient() *remote.Client {
	addr := remoteAddr
	if addr == "" {
		addr = cfg.Remote.Addr
	}
	return remote.NewClient(addr)
}
