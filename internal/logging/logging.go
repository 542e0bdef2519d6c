// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Formats accepted by Setup.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Setup sets the global level and output. With FormatAuto a terminal gets the
// console writer and anything else gets JSON lines.
func Setup(level, format string, out io.Writer) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch format {
	case FormatConsole:
		log.Logger = log.Output(consoleWriter(out))
	case FormatJSON:
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case FormatAuto, "":
		if isTerminal(out) {
			log.Logger = log.Output(consoleWriter(out))
		} else {
			log.Logger = zerolog.New(out).With().Timestamp().Logger()
		}
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    os.Getenv("NO_COLOR") != "" || !isTerminal(out),
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
