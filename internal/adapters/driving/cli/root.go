// Package cli is the cobra command surface of plover. Every mode runs
// through the same dispatch boundary: open the config through the lock
// registry, build the service graph, run the operation, and always finish
// by persisting the config and flushing the run log — success or failure.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plumeworks/plover-cli/internal/adapters/driven/config/file"
	"github.com/plumeworks/plover-cli/internal/adapters/driven/oauth"
	"github.com/plumeworks/plover-cli/internal/adapters/driven/storage/sqlite"
	"github.com/plumeworks/plover-cli/internal/adapters/driven/transport"
	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
	"github.com/plumeworks/plover-cli/internal/core/services"
	"github.com/plumeworks/plover-cli/internal/logger"
	"github.com/plumeworks/plover-cli/internal/runlog"
)

// version is the release version, overridable at build time with
// -ldflags "-X ...cli.version=".
var version = "0.3.0"

// Persistent flags.
var (
	flagConfig    string
	flagVerbose   bool
	flagPreserve  bool
	flagNoHistory bool
)

// configRegistry shares one locked handle per config path across the
// process. It is created at the entrypoint, not on import.
var configRegistry *file.Registry

var rootCmd = &cobra.Command{
	Use:   "plover",
	Short: "A queue-backed social media posting bot",
	Long: `plover manages OAuth1 credentials for one application and multiple
accounts, keeps a durable queue of pending messages in a single config
file, and posts them through the platform's REST endpoint with
duplicate-content handling and retry.

All outcomes, including errors, are reported through the run log printed
on stderr; the process does not use distinct exit codes for operational
failures.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagConfig, "config", "", "config file path (default ~/.plover/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "enable verbose diagnostics on stderr")
	rootCmd.PersistentFlags().BoolVar(
		&flagPreserve, "preserve", false, "do not write config changes back to disk")
	rootCmd.PersistentFlags().BoolVar(
		&flagNoHistory, "no-history", false, "disable the post history database")
}

// Execute runs the CLI. It owns the lock registry for the process.
func Execute() error {
	configRegistry = file.NewRegistry()
	return rootCmd.Execute()
}

// app is the per-run dependency graph handed to every mode.
type app struct {
	store   driven.ConfigStore
	queue   driving.QueueService
	creds   driving.CredentialService
	poster  driving.Poster
	history driven.HistoryStore // nil when disabled or unavailable
	log     *runlog.RunLog
}

// runMode is the mode-dispatch boundary. Operation errors are appended to
// the run log and never escape; configuration-class errors additionally
// set the preserve flag so partial state is not written back. The config
// is persisted and the log flushed on every path.
func runMode(cmd *cobra.Command, mode string, withHistory bool, fn func(ctx context.Context, a *app) error) error {
	log := runlog.New(mode)

	path, err := configPath()
	if err != nil {
		log.LogError(err)
		log.Flush()
		return nil
	}

	store, err := configRegistry.Open(path)
	if err != nil {
		log.LogError(err)
		log.Flush()
		return nil
	}
	defer store.Close()
	log.SetFile(store.GetString("log_file"))

	a := buildApp(store, log, withHistory)
	if a.history != nil {
		defer a.history.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	preserve := flagPreserve
	if err := fn(ctx, a); err != nil {
		log.LogError(err)
		if domain.IsConfigurationError(err) {
			preserve = true
		}
	}
	if err := store.Save(preserve); err != nil {
		log.Logf("config not saved: %v", err)
	}
	log.Flush()
	return nil
}

// buildApp wires the service graph for one run.
func buildApp(store driven.ConfigStore, log *runlog.RunLog, withHistory bool) *app {
	a := &app{store: store, log: log}

	a.queue = services.NewQueueService(store)
	a.creds = services.NewCredentialService(store, oauth.NewSignerFactory(), oauth.NewPinAuthorizer())

	if withHistory && !flagNoHistory {
		h, err := sqlite.NewStore(filepath.Dir(store.Path()))
		if err != nil {
			logger.Warn("post history unavailable: %v", err)
		} else {
			a.history = h
		}
	}

	a.poster = services.NewPoster(
		store,
		a.queue,
		a.creds,
		transport.New(store.GetString("consumer.site"), version),
		a.history,
		log,
	)
	return a
}

// configPath resolves the config file location.
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".plover", "config.toml"), nil
}
