package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loculus-project/seqsearch/internal/config"
	"github.com/loculus-project/seqsearch/internal/favorites"
	"github.com/loculus-project/seqsearch/internal/history"
	"github.com/loculus-project/seqsearch/internal/logging"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
	"github.com/loculus-project/seqsearch/internal/session"
)

const historyFile = "history.db"

// cli carries the root flags and the loaded config to every subcommand.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string
	color      string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "seqsearch",
		Short: "URL-driven sequence search state",
		Long: `seqsearch reads and rewrites the query string of a sequence search page.

Every filter, visibility override, ordering and pagination choice lives in the
URL. The commands below normalize such URLs, explain what they select, apply
search actions to them and keep a history and saved searches.

Examples:
  seqsearch normalize "geoLocCountry=France&page=1"
  seqsearch explain "https://example.org/cchf/search?hostNameScientific=Bat"
  seqsearch set --field hostNameScientific=Bat --order-by length
  seqsearch tui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: <user config dir>/seqsearch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log format (auto, console, json)")
	rootCmd.PersistentFlags().StringVar(&c.color, "color", colorAuto, "highlight JSON and YAML output (auto, always, never)")

	rootCmd.AddCommand(newNormalizeCmd(c))
	rootCmd.AddCommand(newExplainCmd(c))
	rootCmd.AddCommand(newSetCmd(c))
	rootCmd.AddCommand(newBookmarkCmd(c))
	rootCmd.AddCommand(newHistoryCmd(c))
	rootCmd.AddCommand(newTUICmd(c))
	return rootCmd
}

// load reads the config and sets up logging. Without --config a broken default
// file falls back to the built-in defaults.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		if c.configPath != "" {
			return err
		}
		log.Warn().Err(err).Msg("could not load config, using defaults")
		cfg = config.GetDefaults()
		if dir, err := config.GetConfigPath(); err == nil {
			cfg.Data.Dir = dir
		}
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *cli) printer(cmd *cobra.Command) (printer, error) {
	return newPrinter(cmd.OutOrStdout(), c.color)
}

func (c *cli) reducer() (*search.Reducer, error) {
	r, err := c.cfg.NewReducer()
	if err != nil {
		return nil, fmt.Errorf("failed to build search state: %w", err)
	}
	return r, nil
}

// session opens a session on the query part of input, which may be a bare
// query, a query with a leading '?' or a full URL.
func (c *cli) session(input string) (*session.Session, error) {
	r, err := c.reducer()
	if err != nil {
		return nil, err
	}
	return session.New(r, querystate.QueryPart(input), session.WithLogger(log.Logger)), nil
}

func (c *cli) favorites() (*favorites.Manager, error) {
	return favorites.NewManager(c.cfg.Data.Dir)
}

// history opens the history database. With persistence off it lives in
// memory for the process only.
func (c *cli) history() (*history.Store, error) {
	if !c.cfg.History.Persist {
		return history.NewStore(":memory:")
	}
	if err := os.MkdirAll(c.cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return history.NewStore(filepath.Join(c.cfg.Data.Dir, historyFile))
}

// record appends a visited query to the persistent history when it is
// enabled.
func (c *cli) record(organism, action, query string) {
	if !c.cfg.History.Enabled || !c.cfg.History.Persist {
		return
	}
	store, err := c.history()
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return
	}
	defer store.Close()

	if err := store.Add(history.Entry{Organism: organism, Query: query, Action: action}); err != nil {
		log.Warn().Err(err).Msg("failed to record history")
		return
	}
	if c.cfg.History.MaxEntries > 0 {
		if _, err := store.Prune(c.cfg.History.MaxEntries); err != nil {
			log.Warn().Err(err).Msg("failed to prune history")
		}
	}
}
