package weft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	werrors "github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/scheduler"
	"github.com/vango-dev/weft/pkg/target"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

// ErrTargetNotFound is returned by Mount when the target cannot be resolved.
var ErrTargetNotFound = errors.New("weft: mount target not found")

// =============================================================================
// App Type
// =============================================================================

// App wires an output adapter to a scheduler.
//
// Create an App with weft.New():
//
//	app := weft.New(weft.Config{Logger: logger})
//	if err := app.Mount("#app", root); err != nil {
//	    return err
//	}
//	app.Flush()
type App struct {
	scheduler *scheduler.Scheduler
	adapter   target.Adapter

	config Config
	logger *slog.Logger
}

// New creates an application with the given configuration.
func New(cfg Config) *App {
	if cfg.Adapter == nil {
		cfg.Adapter = htmldom.New()
	}
	if cfg.Host == nil {
		cfg.Host = scheduler.NewManualHost()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		scheduler: scheduler.New(scheduler.Config{
			Adapter:    cfg.Adapter,
			Host:       cfg.Host,
			EnoughTime: cfg.EnoughTime,
			Bus:        cfg.Bus,
			Logger:     logger,
			Metrics:    cfg.Metrics,
			Tracer:     cfg.Tracer,
		}),
		adapter: cfg.Adapter,
		config:  cfg,
		logger:  logger,
	}
}

// Mount queues the construction of roots under target, a selector string
// resolved by the adapter or an adapter node. Nothing is built until the
// host runs the scheduler.
func (a *App) Mount(t any, roots ...*Element) error {
	node, err := a.resolve(t)
	if err != nil {
		return err
	}
	a.logger.Debug("mount", "target", fmt.Sprintf("%v", t), "roots", len(roots))
	return a.scheduler.Mount(node, roots...)
}

func (a *App) resolve(t any) (target.Node, error) {
	switch v := t.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %w", ErrTargetNotFound,
			werrors.New("E021").WithDetail("target is nil"))
	case string:
		node, err := a.adapter.Resolve(v)
		if err != nil || node == nil {
			werr := werrors.New("E021").WithDetailf("no node matches %q", v)
			if err != nil {
				werr = werr.Wrap(err)
			}
			return nil, fmt.Errorf("%w: %w", ErrTargetNotFound, werr)
		}
		return node, nil
	default:
		if isNilNode(v) {
			return nil, fmt.Errorf("%w: %w", ErrTargetNotFound,
				werrors.New("E021").WithDetailf("target is a nil %T", v))
		}
		return v, nil
	}
}

// isNilNode reports whether v is a typed nil, such as a nil *html.Node.
func isNilNode(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Flush runs queued work to completion when the app is driven by a
// ManualHost. It returns the number of slices run.
func (a *App) Flush() int {
	return a.scheduler.Flush()
}

// Post runs fn on the goroutine that owns the scheduler. With a LoopHost it
// is queued for the loop; otherwise it runs immediately.
func (a *App) Post(fn func()) {
	if h, ok := a.config.Host.(*scheduler.LoopHost); ok {
		h.Post(fn)
		return
	}
	fn()
}

// Run drives the app until ctx is cancelled when it uses a LoopHost. With
// any other host it flushes queued work and returns.
func (a *App) Run(ctx context.Context) error {
	if h, ok := a.config.Host.(*scheduler.LoopHost); ok {
		a.logger.Info("weft loop started", "slice", h.Slice)
		err := h.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	a.Flush()
	return nil
}

// Scheduler returns the underlying scheduler.
func (a *App) Scheduler() *scheduler.Scheduler {
	return a.scheduler
}

// Adapter returns the output adapter.
func (a *App) Adapter() target.Adapter {
	return a.adapter
}

// Document returns the output document when the adapter is htmldom.
func (a *App) Document() (*htmldom.Document, bool) {
	doc, ok := a.adapter.(*htmldom.Document)
	return doc, ok
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}
