package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/loculus-project/seqsearch/internal/export"
	"github.com/loculus-project/seqsearch/internal/history"
)

func newHistoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show visited searches",
		Long: `Show the canonical queries visited through the explorer and the set
and bookmark commands.`,
	}
	cmd.AddCommand(newHistoryListCmd(c))
	cmd.AddCommand(newHistorySearchCmd(c))
	cmd.AddCommand(newHistoryClearCmd(c))
	return cmd
}

func newHistoryListCmd(c *cli) *cobra.Command {
	var (
		output string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the most recent searches",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.history()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.GetRecent(limit)
			if err != nil {
				return err
			}
			return c.printHistory(cmd, output, entries)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most n entries")
	return cmd
}

func newHistorySearchCmd(c *cli) *cobra.Command {
	var (
		output string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Find visited searches whose query contains text",
		Long: `Find visited searches whose query contains text.

Examples:
  seqsearch history search hostNameScientific
  seqsearch history search "geoLocCountry=France" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.history()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Search(args[0], limit)
			if err != nil {
				return err
			}
			return c.printHistory(cmd, output, entries)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most n entries")
	return cmd
}

func newHistoryClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all visited searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.history()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return err
		},
	}
}

func (c *cli) printHistory(cmd *cobra.Command, output string, entries []history.Entry) error {
	p, err := c.printer(cmd)
	if err != nil {
		return err
	}
	data := tableData{Headers: []string{"ID", "VISITED", "ORGANISM", "ACTION", "URL"}}
	for _, e := range entries {
		url := export.SearchURL(c.cfg.General.BaseURL, e.Query)
		if url == "" {
			url = e.Query
		}
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(e.ID),
			formatTime(e.VisitedAt),
			e.Organism,
			e.Action,
			url,
		})
	}
	return p.list(output, entries, data, "entries")
}
