package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loculus-project/seqsearch/internal/binding"
	"github.com/loculus-project/seqsearch/internal/filter"
	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
	"github.com/loculus-project/seqsearch/internal/session"
	"github.com/loculus-project/seqsearch/internal/ui/components"
)

var errInvalidMutations = errors.New("invalid mutations")

func newNormalizeCmd(c *cli) *cobra.Command {
	var asURL bool

	cmd := &cobra.Command{
		Use:   "normalize [query-or-url]",
		Short: "Print the canonical form of a search query",
		Long: `Print the canonical form of a search query: keys sorted, list order kept.

Examples:
  seqsearch normalize "page=2&geoLocCountry=France"
  seqsearch normalize --url "https://example.org/cchf/search?page=2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.session(args[0])
			if err != nil {
				return err
			}
			return printQuery(cmd.OutOrStdout(), sess, c.cfg.General.BaseURL, asURL)
		},
	}
	cmd.Flags().BoolVar(&asURL, "url", false, "print the full search URL")
	return cmd
}

func printQuery(w io.Writer, sess *session.Session, baseURL string, asURL bool) error {
	out := sess.Query()
	if asURL {
		out = sess.URL(baseURL)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// explanation is everything a query selects, as explain prints it.
type explanation struct {
	Query            string          `json:"query" yaml:"query"`
	FieldValues      map[string]any  `json:"fieldValues" yaml:"fieldValues"`
	SearchVisibility map[string]bool `json:"searchVisibility" yaml:"searchVisibility"`
	ColumnVisibility map[string]bool `json:"columnVisibility" yaml:"columnVisibility"`
	OrderBy          string          `json:"orderBy" yaml:"orderBy"`
	Order            string          `json:"order" yaml:"order"`
	Page             int             `json:"page" yaml:"page"`
	Suborganism      string          `json:"suborganism,omitempty" yaml:"suborganism,omitempty"`
	SelectedSeq      *string         `json:"selectedSeq,omitempty" yaml:"selectedSeq,omitempty"`
	HalfScreen       bool            `json:"halfScreen" yaml:"halfScreen"`
	Where            string          `json:"where" yaml:"where"`
	Params           map[string]any  `json:"params" yaml:"params"`
}

func newExplainCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "explain [query-or-url]",
		Short: "Show the search state a query selects",
		Long: `Show the effective field values, visibilities, ordering, page and the
backend request parameters a query selects.

Examples:
  seqsearch explain "hostNameScientific=Bat&page=3"
  seqsearch explain -o yaml "https://example.org/cchf/search?lengthFrom=100"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			sess, err := c.session(input)
			if err != nil {
				return err
			}
			p, err := c.printer(cmd)
			if err != nil {
				return err
			}
			builder := filter.NewBuilder(c.cfg.Search.PageSize)
			exp, err := explain(sess, builder)
			if err != nil {
				return err
			}
			return p.structured(output, exp)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json, yaml)")
	return cmd
}

func explain(sess *session.Session, builder *filter.Builder) (explanation, error) {
	snap := sess.Snapshot()
	req := builder.Build(sess.Reducer(), sess.State())

	where, err := filter.Describe(req)
	if err != nil {
		return explanation{}, err
	}

	values := make(map[string]any, len(snap.FieldValues))
	for key, v := range snap.FieldValues {
		values[key] = plainValue(v)
	}

	return explanation{
		Query:            snap.Query,
		FieldValues:      values,
		SearchVisibility: snap.SearchVisibility,
		ColumnVisibility: snap.ColumnVisibility,
		OrderBy:          snap.OrderBy,
		Order:            string(snap.Order),
		Page:             snap.Page,
		Suborganism:      snap.Suborganism,
		SelectedSeq:      snap.SelectedSeq,
		HalfScreen:       snap.HalfScreen,
		Where:            where,
		Params:           filter.Params(req),
	}, nil
}

// plainValue renders a value as a string or a list whose nulls are nil.
func plainValue(v search.Value) any {
	if !v.IsList {
		return v.Text
	}
	items := make([]*string, len(v.Items))
	for i, it := range v.Items {
		if !it.Null {
			s := it.Value
			items[i] = &s
		}
	}
	return items
}

// setOptions are the search actions of the set command, applied in field
// order.
type setOptions struct {
	reset       bool
	suborganism string
	fields      []string
	remove      []string
	show        []string
	hide        []string
	showColumns []string
	hideColumns []string
	mutations   string
	orderBy     string
	order       string
	selectSeq   string
	halfScreen  bool
	page        int
	asURL       bool
}

func newSetCmd(c *cli) *cobra.Command {
	opts := &setOptions{}

	cmd := &cobra.Command{
		Use:   "set [query-or-url]",
		Short: "Apply search actions to a query",
		Long: `Apply search actions to a query and print the resulting query.

Actions run in a fixed order: reset, suborganism, field values, removals,
search field visibility, column visibility, mutations, ordering, sequence
selection, layout and finally the page. Every filtering action starts the
results over at page one.

Field values are given as key=value. Multi-select fields take a comma
separated list where "null" stands for a missing value. Range fields are set
through their bound keys, for example lengthFrom=100.

Examples:
  seqsearch set --field hostNameScientific=Bat
  seqsearch set "geoLocCountry=France&page=3" --field "geoLocCountry=France,Peru,null"
  seqsearch set --hide geoLocCountry --show-column isRevocation --order-by isRevocation
  seqsearch set --mutations "L:A23T, GPC:A82V" --url`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			sess, err := c.session(input)
			if err != nil {
				return err
			}
			if err := applySet(sess, cmd, opts); err != nil {
				return err
			}
			c.record(sess.Reducer().Schema().Organism, "set", sess.Query())
			return printQuery(cmd.OutOrStdout(), sess, c.cfg.General.BaseURL, opts.asURL)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.reset, "reset", false, "drop every search setting first")
	f.StringVar(&opts.suborganism, "suborganism", "", "select a suborganism (empty for all)")
	f.StringArrayVar(&opts.fields, "field", nil, "set a field value as key=value (repeatable)")
	f.StringArrayVar(&opts.remove, "remove", nil, "remove a field's filter (repeatable)")
	f.StringArrayVar(&opts.show, "show", nil, "show a search field (repeatable)")
	f.StringArrayVar(&opts.hide, "hide", nil, "hide a search field and clear its value (repeatable)")
	f.StringArrayVar(&opts.showColumns, "show-column", nil, "show a result column (repeatable)")
	f.StringArrayVar(&opts.hideColumns, "hide-column", nil, "hide a result column (repeatable)")
	f.StringVar(&opts.mutations, "mutations", "", "replace the mutation filter, e.g. \"L:A23T, GPC:A82V\"")
	f.StringVar(&opts.orderBy, "order-by", "", "order results by a field")
	f.StringVar(&opts.order, "order", "", "order direction (ascending, descending)")
	f.StringVar(&opts.selectSeq, "select", "", "open a sequence by accession (empty closes it)")
	f.BoolVar(&opts.halfScreen, "half-screen", false, "dock the sequence view to half the screen")
	f.IntVar(&opts.page, "page", 1, "results page")
	f.BoolVar(&opts.asURL, "url", false, "print the full search URL")
	return cmd
}

func applySet(sess *session.Session, cmd *cobra.Command, opts *setOptions) error {
	r := sess.Reducer()
	schema := r.Schema()
	changed := cmd.Flags().Changed

	if opts.reset {
		sess.Apply("reset", r.Reset)
	}

	if changed("suborganism") {
		if schema.SuborganismIdentifierField == "" {
			return fmt.Errorf("organism %q has no suborganisms", schema.Organism)
		}
		sub := opts.suborganism
		sess.Apply("suborganism", func(s querystate.State) querystate.State {
			return r.SetSuborganism(s, sub)
		})
	}

	if len(opts.fields) > 0 {
		updates, err := fieldUpdates(r, opts.fields)
		if err != nil {
			return err
		}
		sess.Apply("set fields", func(s querystate.State) querystate.State {
			return r.SetSomeFieldValues(s, updates...)
		})
	}

	for _, name := range opts.remove {
		if err := requireField(schema, name); err != nil {
			return err
		}
		sess.Apply("remove "+name, func(s querystate.State) querystate.State {
			return r.RemoveField(s, name)
		})
	}

	if err := applyVisibility(sess, schema, opts.show, opts.hide, r.SetASearchVisibility); err != nil {
		return err
	}
	if err := applyVisibility(sess, schema, opts.showColumns, opts.hideColumns, r.SetAColumnVisibility); err != nil {
		return err
	}

	if changed("mutations") {
		m, invalid := search.ParseMutationQuery(opts.mutations, schema.ReferenceGenome)
		if len(invalid) > 0 {
			return fmt.Errorf("%w: %s", errInvalidMutations, strings.Join(invalid, ", "))
		}
		sess.Apply("mutations", func(s querystate.State) querystate.State {
			return r.SetMutations(s, m)
		})
	}

	if changed("order-by") {
		name := opts.orderBy
		if name != "" {
			if err := requireField(schema, name); err != nil {
				return err
			}
		}
		sess.Apply("order by", func(s querystate.State) querystate.State {
			return r.SetOrderByField(s, name)
		})
	}

	if changed("order") {
		dir := models.OrderDirection(opts.order)
		if !dir.Valid() {
			return fmt.Errorf("invalid order %q (use ascending or descending)", opts.order)
		}
		sess.Apply("order", func(s querystate.State) querystate.State {
			return r.SetOrderDirection(s, dir)
		})
	}

	if changed("select") {
		var selected *string
		if opts.selectSeq != "" {
			selected = &opts.selectSeq
		}
		sess.Apply("select sequence", func(s querystate.State) querystate.State {
			return binding.SelectedSeq().Write(s, selected, nil)
		})
	}

	if changed("half-screen") {
		half := opts.halfScreen
		sess.Apply("half screen", func(s querystate.State) querystate.State {
			return binding.HalfScreen().Write(s, half, nil)
		})
	}

	if changed("page") {
		page := opts.page
		sess.Apply("page", func(s querystate.State) querystate.State {
			return r.SetPage(s, page)
		})
	}
	return nil
}

func applyVisibility(sess *session.Session, schema *models.Schema, show, hide []string, set func(querystate.State, string, bool) querystate.State) error {
	for _, group := range []struct {
		names   []string
		visible bool
	}{{show, true}, {hide, false}} {
		for _, name := range group.names {
			if err := requireField(schema, name); err != nil {
				return err
			}
			visible := group.visible
			sess.Apply("visibility "+name, func(s querystate.State) querystate.State {
				return set(s, name, visible)
			})
		}
	}
	return nil
}

func requireField(schema *models.Schema, name string) error {
	if _, ok := schema.Field(name); !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// fieldUpdates parses key=value pairs. A key is a field name, a range bound
// key or a hidden key.
func fieldUpdates(r *search.Reducer, pairs []string) ([]search.Update, error) {
	updates := make([]search.Update, 0, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (want key=value)", pair)
		}
		kind, ok := keyKind(r, key)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		v, err := components.ParseFieldInput(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		updates = append(updates, search.Set(key, v))
	}
	return updates, nil
}

func keyKind(r *search.Reducer, key string) (models.FieldKind, bool) {
	schema := r.Schema()
	for _, f := range schema.Fields {
		for _, k := range f.Keys() {
			if k == key {
				return f.Kind, true
			}
		}
	}
	if key == schema.SuborganismIdentifierField {
		return models.KindScalar, true
	}
	if _, ok := r.Hidden()[key]; ok {
		return models.KindScalar, true
	}
	return "", false
}
