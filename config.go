package weft

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/scheduler"
	"github.com/vango-dev/weft/pkg/target"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the application configuration.
type Config struct {
	// Adapter is the output target. If nil, an in-memory HTML document
	// (htmldom) is created.
	Adapter target.Adapter

	// Host provides the idle slices reconciliation runs in.
	// If nil, a ManualHost is used and the caller drives work with Flush.
	Host scheduler.Host

	// EnoughTime is the remaining slice budget below which reconciliation
	// yields. Default: scheduler.DefaultEnoughTime.
	EnoughTime time.Duration

	// Bus carries the inspector notification. If nil, channel.Default.
	Bus *channel.Bus

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records scheduler metrics. Nil disables them.
	Metrics *scheduler.Metrics

	// Tracer traces work units. If nil, the global otel tracer is used.
	Tracer trace.Tracer
}

// =============================================================================
// Default Configurations
// =============================================================================

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnoughTime: scheduler.DefaultEnoughTime,
	}
}

// LoopConfig returns a Config driven by a LoopHost with the given slice
// length.
func LoopConfig(slice time.Duration) Config {
	cfg := DefaultConfig()
	cfg.Host = scheduler.NewLoopHost(slice, 0)
	return cfg
}
