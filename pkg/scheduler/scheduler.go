// Package scheduler drives fiber reconciliation in cooperative time slices.
//
// Work is queued as units: mount a list of elements under an output node, or
// re-run reconciliation from one fiber whose mediator fired. A unit's fiber
// becomes the walk target; the scheduler walks its subtree depth first,
// yielding whenever the host's deadline runs low, and applies the
// accumulated effects to the output target only after the whole subtree has
// completed.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/trace"

	werrors "github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/fiber"
	"github.com/vango-dev/weft/pkg/target"
)

// ChannelInspector is the channel the root fiber is emitted on after every
// commit.
var ChannelInspector = xxhash.Sum64String("weft:inspector")

// DefaultEnoughTime is the slice budget below which the work loop yields.
const DefaultEnoughTime = time.Millisecond

// WorkKind distinguishes queued work units.
type WorkKind uint8

const (
	// WorkMount builds a new root under Target from Elements.
	WorkMount WorkKind = iota
	// WorkFiber re-runs reconciliation from Fiber.
	WorkFiber
)

func (k WorkKind) String() string {
	if k == WorkMount {
		return "mount"
	}
	return "fiber"
}

// WorkUnit is one queued request.
type WorkUnit struct {
	Kind     WorkKind
	Target   target.Node
	Elements []*element.Element
	Fiber    *fiber.Fiber
}

// State is the scheduler's position in the work-unit lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateQueued
	StateActive
	StateWalk
	StateComplete
	StateCommit
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateQueued:
		return "QUEUED"
	case StateActive:
		return "ACTIVE"
	case StateWalk:
		return "WALK"
	case StateComplete:
		return "COMPLETE"
	case StateCommit:
		return "COMMIT"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Scheduler.
type Config struct {
	// Adapter applies effects to the output target. Required.
	Adapter target.Adapter

	// Host provides idle slices. Default: a new ManualHost.
	Host Host

	// EnoughTime is the remaining slice budget below which the loop yields.
	// Default: DefaultEnoughTime.
	EnoughTime time.Duration

	// Bus carries the inspector notification. Default: channel.Default.
	Bus *channel.Bus

	// Logger receives debug traces of the work loop.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics records scheduler metrics. Nil disables them.
	Metrics *Metrics

	// Tracer traces work units. Default: the global otel tracer.
	Tracer trace.Tracer
}

// Scheduler owns the work queue and the walk pointers. It is not safe for
// concurrent use: every call, and every idle callback, must happen on one
// goroutine.
type Scheduler struct {
	adapter    target.Adapter
	host       Host
	enoughTime time.Duration
	bus        *channel.Bus
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer

	queue     []WorkUnit
	requested bool
	state     State

	next    *fiber.Fiber
	target  *fiber.Fiber
	pending *fiber.Fiber

	span      trace.Span
	unitStart time.Time
	steps     int
	commits   int
}

// New creates a scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Host == nil {
		cfg.Host = NewManualHost()
	}
	if cfg.EnoughTime <= 0 {
		cfg.EnoughTime = DefaultEnoughTime
	}
	if cfg.Bus == nil {
		cfg.Bus = channel.Default
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = defaultTracer()
	}
	cfg.Bus.Open(ChannelInspector)

	return &Scheduler{
		adapter:    cfg.Adapter,
		host:       cfg.Host,
		enoughTime: cfg.EnoughTime,
		bus:        cfg.Bus,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
	}
}

// Host returns the scheduler's host.
func (s *Scheduler) Host() Host {
	return s.host
}

// Adapter returns the scheduler's output adapter.
func (s *Scheduler) Adapter() target.Adapter {
	return s.adapter
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return s.state
}

// QueueLen returns the number of units not yet dequeued.
func (s *Scheduler) QueueLen() int {
	return len(s.queue)
}

// Commits returns the number of commits performed.
func (s *Scheduler) Commits() int {
	return s.commits
}

// Mount queues a unit building elements under node.
func (s *Scheduler) Mount(node target.Node, elements ...*element.Element) error {
	return s.Schedule(WorkUnit{Kind: WorkMount, Target: node, Elements: elements})
}

// ScheduleFiber queues a unit re-running reconciliation from f.
func (s *Scheduler) ScheduleFiber(f *fiber.Fiber) {
	if err := s.Schedule(WorkUnit{Kind: WorkFiber, Fiber: f}); err != nil {
		s.logger.Error("schedule fiber", "error", err)
	}
}

// Schedule validates and queues u, then requests an idle slice.
func (s *Scheduler) Schedule(u WorkUnit) error {
	switch u.Kind {
	case WorkMount:
		if u.Target == nil {
			return werrors.New("E021").WithDetail("mount unit has no target node")
		}
	case WorkFiber:
		if u.Fiber == nil {
			return werrors.New("E022").WithDetail("fiber unit has no fiber")
		}
	default:
		return werrors.New("E022").WithDetailf("unknown work kind %d", u.Kind)
	}

	s.queue = append(s.queue, u)
	s.metrics.setQueueDepth(len(s.queue))
	if s.state == StateIdle {
		s.state = StateQueued
	}
	s.request()
	return nil
}

func (s *Scheduler) request() {
	if s.requested {
		return
	}
	s.requested = true
	s.host.RequestIdle(s.performWork)
}

// performWork is the idle callback.
func (s *Scheduler) performWork(d Deadline) {
	s.requested = false
	s.metrics.recordSlice()

	defer func() {
		if r := recover(); r != nil {
			s.abandonUnit(r)
			panic(r)
		}
	}()

	s.workLoop(d)

	if s.next != nil || len(s.queue) > 0 {
		s.request()
	}
}

func (s *Scheduler) workLoop(d Deadline) {
	for d.TimeRemaining() > s.enoughTime {
		if s.next == nil && !s.resetNextUnit() {
			return
		}
		s.next = s.performUnit(s.next)
		if s.next != nil {
			s.state = StateWalk
		} else if s.pending != nil {
			s.commitAllWork()
		}
	}
}

// resetNextUnit dequeues the next live unit and installs its root fiber.
func (s *Scheduler) resetNextUnit() bool {
	for len(s.queue) > 0 {
		unit := s.queue[0]
		s.queue = s.queue[1:]
		s.metrics.setQueueDepth(len(s.queue))

		var root *fiber.Fiber
		switch unit.Kind {
		case WorkMount:
			root = fiber.NewRoot(unit.Target, unit.Elements)
		case WorkFiber:
			if unit.Fiber.Torn() {
				s.logger.Debug("skip torn fiber", "fiber", unit.Fiber.ID)
				continue
			}
			root = unit.Fiber
		}

		s.metrics.recordUnit(unit.Kind)
		s.logger.Debug("work unit", "kind", unit.Kind.String(), "fiber", root.ID, "type", root.TypeName())

		s.next = root
		s.target = root
		s.state = StateActive
		s.unitStart = time.Now()
		s.steps = 0
		s.startUnitSpan(unit, root)
		return true
	}
	s.state = StateIdle
	return false
}

// performUnit runs beginWork on f and returns the next fiber to visit, or nil
// once the target has completed.
func (s *Scheduler) performUnit(f *fiber.Fiber) *fiber.Fiber {
	s.steps++
	s.metrics.recordStep()

	if s.beginWork(f) && f.Child != nil {
		return f.Child
	}

	for next := f; next != nil; next = next.Parent {
		s.completeWork(next)
		if next == s.target {
			break
		}
		if next.Sibling != nil {
			return next.Sibling
		}
	}
	return nil
}

// abandonUnit drops the unit a panic escaped from. The fiber tree keeps the
// partial reconciliation but nothing of it is committed.
func (s *Scheduler) abandonUnit(r any) {
	s.logger.Error("work unit aborted", "code", "E030", "panic", r)
	if s.target != nil {
		s.target.Walk(func(f *fiber.Fiber) bool {
			f.Effects = nil
			return true
		})
	}
	s.failUnitSpan(r)
	s.next, s.target, s.pending = nil, nil, nil
	if len(s.queue) > 0 {
		s.state = StateQueued
		s.request()
	} else {
		s.state = StateIdle
	}
}

// Flush runs slices with an unlimited deadline until the queue is empty.
// It works only with a ManualHost and returns the number of slices run.
func (s *Scheduler) Flush() int {
	h, ok := s.host.(*ManualHost)
	if !ok {
		return 0
	}
	return h.Drain()
}
