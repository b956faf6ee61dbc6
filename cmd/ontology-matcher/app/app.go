// Package app wires configuration, logging, the response cache and the
// matcher into the cobra command tree.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/open-prophetdb/ontology-matcher/internal/cache"
	"github.com/open-prophetdb/ontology-matcher/internal/matcher"
	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontologies"
)

// App is the assembled CLI application.
type App struct {
	config  *Config
	logger  *zerolog.Logger
	matcher *matcher.Matcher
	cache   *cache.Store
	root    *cobra.Command

	version string
	commit  string
	date    string
	runID   string
}

// New creates the application: configuration, logger, registry, cache and
// transport, then the command tree.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logging.SetDefault(newLogger(config))
	logger := logging.Default()

	registry := ontologies.DefaultRegistry()
	if config.OntologyFile != "" {
		registry, err = ontologies.LoadRegistry(config.OntologyFile)
		if err != nil {
			return nil, err
		}
	}

	a := &App{
		config:  config,
		logger:  logger,
		version: version,
		commit:  commit,
		date:    date,
		runID:   uuid.NewString(),
	}

	options := []transport.Option{}
	if !config.DisableCache {
		store, err := cache.Open(config.CachePath)
		if err != nil {
			logger.Warn().Err(err).Str("path", config.CachePath).Msg("Cache unavailable, continuing without it")
		} else {
			a.cache = store
			options = append(options, transport.WithCache(store))
		}
	}

	a.matcher = matcher.New(registry, transport.New(options...))
	a.root = a.newRootCommand()
	return a, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Execute runs the command tree with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	a.logger.Debug().Str("run_id", a.runID).Msg("Starting run")
	return a.root.ExecuteContext(ctx)
}

// Close releases process-lifetime resources, flushing the response cache.
func (a *App) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close cache")
		}
	}
}

func newLogger(config *Config) zerolog.Logger {
	level := config.LogLevel
	if config.Verbose {
		level = "debug"
	}
	if config.Quiet {
		level = "error"
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}

	if config.LogFormat == "json" || !isTerminal() {
		return logging.New(os.Stderr)
	}
	return logging.NewConsole()
}

func isTerminal() bool {
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// ExitOnError prints the error and exits non-zero.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
