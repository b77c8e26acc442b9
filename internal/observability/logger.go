// Package observability provides the service logger and Prometheus metrics.
package observability

import (
	"log/slog"

	"github.com/couchcryptid/discharge-compliance-service/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the process logger from config and installs it as the
// slog default. Output goes to stdout as JSON unless LOG_FORMAT is "text".
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}
