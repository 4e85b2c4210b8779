package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

var (
	consoleOutput atomic.Bool
	// configuredLevel holds the level set by Configure; levelSet reports
	// whether it overrides LOG_LEVEL.
	configuredLevel atomic.Int32
	levelSet        atomic.Bool
)

// Configure sets the minimum level of every logger and selects the output
// format ("json" or "console"). Loggers created afterwards use that level; an
// empty level restores the LOG_LEVEL default.
func Configure(level, format string) error {
	if level == "" {
		levelSet.Store(false)
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	} else {
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
		configuredLevel.Store(int32(lvl))
		levelSet.Store(true)
		zerolog.SetGlobalLevel(lvl)
	}
	switch strings.ToLower(format) {
	case "", "json":
		consoleOutput.Store(false)
	case "console":
		consoleOutput.Store(true)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// NewZerologLogger writes JSON lines to stdout, or human readable lines when
// APP_ENV is "dev" or the console format is configured. All logs include the
// provided component field.
func NewZerologLogger(component string) Logger {
	var out io.Writer = os.Stdout
	if consoleOutput.Load() || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, component)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, component string) Logger {
	z := zerolog.New(w).Level(currentLevel()).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func currentLevel() zerolog.Level {
	if levelSet.Load() {
		return zerolog.Level(configuredLevel.Load())
	}
	return levelFromEnv()
}

func levelFromEnv() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
