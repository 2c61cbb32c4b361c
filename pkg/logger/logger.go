// Package logger configures the global zerolog logger from LOG_LEVEL and
// LOG_TYPE.
package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogMode selects the shape of log output.
type LogMode string

const (
	LogModeDefault LogMode = "default"
	LogModeJSON    LogMode = "json"
	LogModeQuiet   LogMode = "quiet"
)

var stderr = struct{ io.Writer }{os.Stderr}

func init() { //nolint:gochecknoinits
	ConfigureLogging(LogMode(strings.ToLower(os.Getenv("LOG_TYPE"))))
}

type tTesting interface {
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
	Cleanup(f func())
}

// ConfigureTestLogging sends log lines to the test's own output.
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	configureLogging(LogModeDefault, zerolog.ConsoleTestWriter(t))
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
	})
}

// ConfigureLogging rebuilds the global logger for the given mode.
func ConfigureLogging(mode LogMode) {
	configureLogging(mode)
}

// ParseLevel maps a LOG_LEVEL style string onto a zerolog level. Unknown
// values fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func configureLogging(mode LogMode, loggingOptions ...func(w *zerolog.ConsoleWriter)) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(os.Getenv("LOG_LEVEL")))

	isTerminal := isatty.IsTerminal(os.Stderr.Fd())

	defaultLogging := func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05.999 |"
		w.PartsOrder = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		}
		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}
		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}

	loggingOptions = append([]func(w *zerolog.ConsoleWriter){defaultLogging}, loggingOptions...)

	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return shortCaller(file) + ":" + strconv.Itoa(line)
	}

	var w io.Writer
	switch mode {
	case LogModeJSON:
		w = stderr
	case LogModeQuiet:
		w = io.Discard
	default:
		w = zerolog.NewConsoleWriter(loggingOptions...)
	}

	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// shortCaller keeps the last two path segments of a source file name.
func shortCaller(file string) string {
	separatorCount := 2
	counted := 0
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			counted++
			if counted >= separatorCount {
				return file[i+1:]
			}
		}
	}
	return file
}
