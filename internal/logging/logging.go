// Package logging builds the console logger: one colored line per entry with
// a level marker, the call site and the message.
package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	ansiBold   = "\033[1m"
	ansiUnbold = "\033[2m"
	ansiClear  = "\033[0m"
)

// markers maps a level to its color and prompt symbol.
var markers = map[string]struct{ color, symbol string }{
	zerolog.LevelDebugValue: {"\033[34m", "-"},
	zerolog.LevelInfoValue:  {"\033[32m", "*"},
	zerolog.LevelWarnValue:  {"\033[33m", "?"},
	zerolog.LevelErrorValue: {"\033[31m", "!"},
	zerolog.LevelFatalValue: {"\033[35m", "@"},
	zerolog.LevelPanicValue: {"\033[35m", "@"},
}

// Options configures New.
type Options struct {
	Level   string
	NoColor bool
}

// New returns a console logger writing to out. An unknown level falls back
// to debug and is reported on the returned logger.
func New(out io.Writer, opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    opts.NoColor,
		TimeFormat: time.TimeOnly,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel:  formatLevel(opts.NoColor),
		FormatCaller: formatCaller(opts.NoColor),
	}

	log := zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
	if err != nil && opts.Level != "" {
		log.Warn().Str("level", opts.Level).Msg("Bad log level, using debug")
	}
	return log
}

func formatLevel(noColor bool) zerolog.Formatter {
	return func(i any) string {
		name, _ := i.(string)
		m, ok := markers[name]
		if !ok {
			m.symbol = "?"
		}
		if noColor {
			return "[" + m.symbol + "]"
		}
		return ansiBold + m.color + "[" + m.symbol + "]" + ansiClear
	}
}

// formatCaller trims the caller to file:line.
func formatCaller(noColor bool) zerolog.Formatter {
	return func(i any) string {
		c, ok := i.(string)
		if !ok || c == "" {
			return ""
		}
		if noColor {
			return filepath.Base(c)
		}
		return fmt.Sprintf("%s%s%s", ansiUnbold, filepath.Base(c), ansiClear)
	}
}
