package inspector

import (
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/fiber"
	"github.com/vango-dev/weft/pkg/scheduler"
)

// Config configures an Inspector.
type Config struct {
	// Bus is the bus the scheduler emits on. Default: channel.Default.
	Bus *channel.Bus

	// Name distinguishes several inspectors on one bus. Default: "default".
	Name string

	// Logger is the structured logger. Default: slog.Default()
	Logger *slog.Logger
}

// Inspector keeps the latest snapshot of the tree announced on
// scheduler.ChannelInspector and fans snapshots out to listeners.
type Inspector struct {
	bus        *channel.Bus
	subscriber uint64
	logger     *slog.Logger

	mu        sync.RWMutex
	latest    *Snapshot
	seq       uint64
	listeners []func(*Snapshot)
}

// Attach subscribes a new inspector to the inspector channel.
func Attach(cfg Config) *Inspector {
	if cfg.Bus == nil {
		cfg.Bus = channel.Default
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	in := &Inspector{
		bus:        cfg.Bus,
		subscriber: xxhash.Sum64String("weft:inspector:" + cfg.Name),
		logger:     cfg.Logger,
	}
	in.bus.Subscribe(scheduler.ChannelInspector, in.subscriber, in.handle)
	return in
}

func (in *Inspector) handle(args ...any) {
	if len(args) == 0 {
		return
	}
	root, ok := args[0].(*fiber.Fiber)
	if !ok {
		in.logger.Warn("inspector: unexpected payload", "type", args[0])
		return
	}
	snap := Capture(root)

	in.mu.Lock()
	in.seq++
	snap.Sequence = in.seq
	in.latest = snap
	listeners := append([]func(*Snapshot){}, in.listeners...)
	in.mu.Unlock()

	in.logger.Debug("snapshot", "seq", snap.Sequence, "fibers", snap.Fibers, "fingerprint", snap.Fingerprint)
	for _, fn := range listeners {
		fn(snap)
	}
}

// Latest returns the most recent snapshot, or nil before the first commit.
func (in *Inspector) Latest() *Snapshot {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.latest
}

// Count returns the number of snapshots taken.
func (in *Inspector) Count() uint64 {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.seq
}

// OnSnapshot registers fn to be called with every new snapshot, on the
// goroutine that committed.
func (in *Inspector) OnSnapshot(fn func(*Snapshot)) {
	in.mu.Lock()
	in.listeners = append(in.listeners, fn)
	in.mu.Unlock()
}

// Detach unsubscribes the inspector.
func (in *Inspector) Detach() error {
	return in.bus.Unsubscribe(scheduler.ChannelInspector, in.subscriber)
}
