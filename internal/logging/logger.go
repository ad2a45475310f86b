package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"github.com/i474232898/tempedge/internal/config"
)

// New builds the process logger. Every record carries the run id so the
// output of one invocation can be told apart from the next.
func New(w io.Writer, cfg *config.AppConfig, appName string) *slog.Logger {
	runID := uuid.NewString()

	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName, "run_id", runID)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"env", cfg.AppEnv,
		"run_id", runID,
	)
}
