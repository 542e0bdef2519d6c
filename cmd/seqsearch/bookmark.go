package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loculus-project/seqsearch/internal/export"
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

func newBookmarkCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bookmarks", "fav"},
		Short:   "Manage saved searches",
		Long: `Manage saved searches.

A saved search is a named canonical query of one organism. Opening one prints
its URL and counts the use.`,
	}
	cmd.AddCommand(newBookmarkAddCmd(c))
	cmd.AddCommand(newBookmarkListCmd(c))
	cmd.AddCommand(newBookmarkOpenCmd(c))
	cmd.AddCommand(newBookmarkDeleteCmd(c))
	cmd.AddCommand(newBookmarkExportCmd(c))
	return cmd
}

func newBookmarkAddCmd(c *cli) *cobra.Command {
	var (
		description string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "add [name] [query-or-url]",
		Short: "Save a query under a name",
		Long: `Save a query under a name. The query is stored in canonical form.

Examples:
  seqsearch bookmark add bats "hostNameScientific=Bat"
  seqsearch bookmark add "long L segments" "https://example.org/cchf/search?lengthFrom=10000" --tag qc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := c.favorites()
			if err != nil {
				return err
			}
			organism := c.cfg.Search.Schema.Organism
			fav, err := mgr.Add(args[0], description, querystate.QueryPart(args[1]), organism, tags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s)\n", fav.Name, fav.ID)
			return err
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	return cmd
}

func newBookmarkListCmd(c *cli) *cobra.Command {
	var (
		output string
		text   string
		sortBy string
		limit  int
		all    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved searches",
		Long: `List saved searches of the configured organism.

Examples:
  seqsearch bookmark list
  seqsearch bookmark list --search bat
  seqsearch bookmark list --sort used --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.printer(cmd)
			if err != nil {
				return err
			}
			mgr, err := c.favorites()
			if err != nil {
				return err
			}

			var favs []models.Favorite
			switch sortBy {
			case "name":
				favs = mgr.GetAll()
			case "used":
				favs = mgr.GetMostUsed(0)
			case "recent":
				favs = mgr.GetRecent(0)
			default:
				return fmt.Errorf("invalid sort %q (use name, used or recent)", sortBy)
			}
			if text != "" {
				favs = intersect(favs, mgr.Search(text))
			}
			if !all {
				favs = ofOrganism(favs, c.cfg.Search.Schema.Organism)
			}
			if limit > 0 && len(favs) > limit {
				favs = favs[:limit]
			}

			data := tableData{Headers: []string{"NAME", "QUERY", "TAGS", "USED", "LAST USED"}}
			for _, fav := range favs {
				data.Rows = append(data.Rows, []string{
					fav.Name,
					fav.Query,
					strings.Join(fav.Tags, ","),
					strconv.Itoa(fav.UsageCount),
					formatTime(fav.LastUsed),
				})
			}
			return p.list(output, favs, data, "saved searches")
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	cmd.Flags().StringVarP(&text, "search", "s", "", "only searches matching text in name, description, query or tags")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "sort order (name, used, recent)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n searches")
	cmd.Flags().BoolVar(&all, "all", false, "include other organisms")
	return cmd
}

// intersect keeps the entries of favs that are in subset, in favs' order.
func intersect(favs, subset []models.Favorite) []models.Favorite {
	ids := make(map[string]struct{}, len(subset))
	for _, fav := range subset {
		ids[fav.ID] = struct{}{}
	}
	var out []models.Favorite
	for _, fav := range favs {
		if _, ok := ids[fav.ID]; ok {
			out = append(out, fav)
		}
	}
	return out
}

func ofOrganism(favs []models.Favorite, organism string) []models.Favorite {
	var out []models.Favorite
	for _, fav := range favs {
		if fav.Organism == organism {
			out = append(out, fav)
		}
	}
	return out
}

func newBookmarkOpenCmd(c *cli) *cobra.Command {
	var queryOnly bool

	cmd := &cobra.Command{
		Use:   "open [name]",
		Short: "Print the URL of a saved search",
		Long: `Print the URL of a saved search and count the use.

Examples:
  seqsearch bookmark open bats
  seqsearch bookmark open bats --query`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := c.favorites()
			if err != nil {
				return err
			}
			fav, err := mgr.GetByName(args[0])
			if err != nil {
				return err
			}
			if err := mgr.RecordUsage(fav.ID); err != nil {
				return err
			}
			c.record(fav.Organism, "open "+fav.Name, fav.Query)

			out := export.SearchURL(c.cfg.General.BaseURL, fav.Query)
			if queryOnly || out == "" {
				out = fav.Query
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&queryOnly, "query", false, "print the query string instead of the URL")
	return cmd
}

func newBookmarkDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a saved search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := c.favorites()
			if err != nil {
				return err
			}
			fav, err := mgr.GetByName(args[0])
			if err != nil {
				return err
			}
			if err := mgr.Delete(fav.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", fav.Name)
			return err
		},
	}
}

func newBookmarkExportCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export saved searches to CSV or JSON",
		Long: `Export all saved searches. The format follows the file extension; without
a path the file is written next to the saved searches.

Examples:
  seqsearch bookmark export searches.csv
  seqsearch bookmark export --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := c.favorites()
			if err != nil {
				return err
			}

			path := ""
			f := export.Format(format)
			if len(args) == 1 {
				path = args[0]
				if f, err = export.FormatFromPath(path); err != nil {
					return err
				}
			}

			written, err := mgr.Export(path, f, c.cfg.General.BaseURL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", written)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "format when no path is given (csv, json)")
	return cmd
}
