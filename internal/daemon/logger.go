package daemon

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// AppLogger carries the startup/shutdown banner lines emitted before
// and around daemonization, when slog's structured output isn't worth
// it yet. Reassigned to the same destination InitLogger picks for slog.
var AppLogger = log.New(os.Stdout, "", log.LstdFlags)

// InitLogger initializes the global logger.
func InitLogger(cfg *Config) {
	var handler slog.Handler
	dest := os.Stdout

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if cfg.Debug {
		handler = slog.NewTextHandler(dest, opts)
	} else {
		logFilePath := filepath.Join(cfg.OJHome, "log", "judged-go.log")
		logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("FATAL: Could not open log file %s: %v", logFilePath, err)
		}
		dest = logFile
		handler = slog.NewJSONHandler(logFile, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	AppLogger = log.New(dest, "", log.LstdFlags)
}
