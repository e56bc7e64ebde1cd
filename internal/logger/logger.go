package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slogzerolog "github.com/samber/slog-zerolog/v2"

	"github.com/RobBrazier/bookshelf/config"
)

// Setup configures the global zerolog logger from config and routes slog
// through it, so retryablehttp and httplog share the same output.
func Setup(w io.Writer) *zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if config.LogFormat() == "text" || config.IsLocal() {
		w = zerolog.ConsoleWriter{Out: w}
	}
	context := zerolog.New(w).With().Timestamp()
	if !config.IsLocal() {
		context = context.Str("service.name", "bookshelf")
	}
	logger := context.Logger().Level(config.LogLevel())
	log.Logger = logger

	slog.SetDefault(slog.New(slogzerolog.Option{
		Level:  slogLevel(logger.GetLevel()),
		Logger: &logger,
	}.NewZerologHandler()))
	return &logger
}

func slogLevel(level zerolog.Level) slog.Level {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return slog.LevelDebug
	case zerolog.InfoLevel:
		return slog.LevelInfo
	case zerolog.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
