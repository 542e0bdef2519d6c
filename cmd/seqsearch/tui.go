package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loculus-project/seqsearch/internal/app"
	"github.com/loculus-project/seqsearch/internal/logging"
)

func newTUICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "tui [query-or-url]",
		Aliases: []string{"explore"},
		Short:   "Explore a search interactively",
		Long: `Explore a search interactively. Every key press is a search action on the
URL; the final URL is printed on exit.

Logs go to log.file from the config while the explorer owns the terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runTUI(cmd, input)
		},
	}
}

func (c *cli) runTUI(cmd *cobra.Command, input string) error {
	var logOut io.Writer = io.Discard
	if c.cfg.Log.File != "" {
		f, err := os.OpenFile(c.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	if err := logging.Setup(c.cfg.Log.Level, logging.FormatJSON, logOut); err != nil {
		return err
	}

	sess, err := c.session(input)
	if err != nil {
		return err
	}

	deps := app.Deps{Session: sess, Logger: &log.Logger}
	if mgr, err := c.favorites(); err != nil {
		log.Warn().Err(err).Msg("saved searches unavailable")
	} else {
		deps.Favorites = mgr
	}
	if c.cfg.History.Enabled {
		store, err := c.history()
		if err != nil {
			log.Warn().Err(err).Msg("history unavailable")
		} else {
			defer store.Close()
			deps.History = store
		}
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if c.cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(app.New(c.cfg, deps), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if deps.History != nil && c.cfg.History.MaxEntries > 0 {
		if _, err := deps.History.Prune(c.cfg.History.MaxEntries); err != nil {
			log.Warn().Err(err).Msg("failed to prune history")
		}
	}
	return printQuery(cmd.OutOrStdout(), sess, c.cfg.General.BaseURL, c.cfg.General.BaseURL != "")
}
