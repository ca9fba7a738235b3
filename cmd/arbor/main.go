// Package main provides the arbor CLI: a thin shell over the nested-set
// index for inspecting a tree, editing parent/sort relationships, and
// running rebuilds.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/internal/logger"
	"github.com/mesh-intelligence/arbor/internal/memstore"
	"github.com/mesh-intelligence/arbor/internal/paths"
	"github.com/mesh-intelligence/arbor/pkg/sqlite"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// store is the attached backend, set by attachStore for commands that need
// one. records is its RecordStore surface.
var (
	store   types.Store
	records types.RecordStore
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor maintains a tree of records in a flat indexed store",
	Long: `Arbor keeps a hierarchy in a flat relation using the nested-set model:
each node carries left/right bounds and a level, so containment and
ancestry are answered with range comparisons instead of recursive lookups.
Edit parent and sort relationships, then run "arbor rebuild" to renumber.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.New(logger.Config{Level: logLevel(), Pretty: true})

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		configDataDir = cfg.GetString(cfgKeyDataDir)
		configBackend = cfg.GetString(cfgKeyBackend)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return detachStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.arbor)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.arbor-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

func logLevel() string {
	if flagVerbose {
		return "debug"
	}
	return "warn"
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > ARBOR_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence:
// --data-dir flag > config.yaml data_dir > ARBOR_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// attachStore attaches the configured backend and caches its record
// surface in the package globals.
func attachStore() error {
	dataDir, err := resolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	backend := configBackend
	if backend == "" {
		backend = defaultBackend
	}
	cfg := types.Config{Backend: backend, DataDir: dataDir}

	switch backend {
	case types.BackendMemory:
		store = memstore.New()
	default:
		store = sqlite.NewBackend(sqlite.WithLogger(logger.For(log, "sqlite")))
	}

	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	records, err = store.Records()
	if err != nil {
		return fmt.Errorf("open records: %w", err)
	}
	return nil
}

// detachStore releases the backend if one was attached.
func detachStore() error {
	if store == nil {
		return nil
	}
	err := store.Detach()
	store = nil
	records = nil
	return err
}
