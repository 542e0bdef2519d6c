package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"

	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"

	timeLayout = "2006-01-02 15:04"
)

// printer writes command output, highlighting JSON and YAML for terminals.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, mode string) (printer, error) {
	p := printer{w: w}
	switch mode {
	case colorAlways:
		p.color = true
	case colorNever:
	case colorAuto, "":
		if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
			p.color = isatty.IsTerminal(f.Fd())
		}
	default:
		return printer{}, fmt.Errorf("invalid color mode %q (use auto, always or never)", mode)
	}
	return p, nil
}

// structured writes v as JSON or YAML
func (p printer) structured(format string, v any) error {
	var buf bytes.Buffer
	switch format {
	case outputJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	case outputYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	if !p.color {
		_, err := p.w.Write(buf.Bytes())
		return err
	}
	return p.highlight(buf.String(), format)
}

// highlight writes source with terminal colors, falling back to plain text
// when no lexer knows the language.
func (p printer) highlight(source, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		_, err := io.WriteString(p.w, source)
		return err
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		_, err = io.WriteString(p.w, source)
		return err
	}
	return formatter.Format(p.w, style, iterator)
}

// tableData is a list command's tabular output
type tableData struct {
	Headers []string
	Rows    [][]string
}

func (p printer) table(data tableData) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(data.Headers...).
		Rows(data.Rows...)
	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

// list writes items as a table, or as JSON or YAML when format asks for it.
func (p printer) list(format string, items any, data tableData, noun string) error {
	if format != outputTable {
		return p.structured(format, items)
	}
	if len(data.Rows) == 0 {
		_, err := fmt.Fprintf(p.w, "No %s found\n", noun)
		return err
	}
	if err := p.table(data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.w, "\nTotal: %d %s\n", len(data.Rows), noun)
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
