package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

func TestStepDeadline(t *testing.T) {
	d := &StepDeadline{Steps: 2}
	assert.Positive(t, d.TimeRemaining())
	assert.Positive(t, d.TimeRemaining())
	assert.Zero(t, d.TimeRemaining())
	assert.Zero(t, d.TimeRemaining())
}

func TestManualHost(t *testing.T) {
	h := NewManualHost()
	assert.False(t, h.RunSlice(Unlimited))

	var order []int
	h.RequestIdle(func(Deadline) { order = append(order, 1) })
	h.RequestIdle(func(Deadline) {
		order = append(order, 2)
		h.RequestIdle(func(Deadline) { order = append(order, 3) })
	})
	assert.Equal(t, 2, h.Pending())
	assert.Equal(t, 3, h.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestManualHostDrainDetectsCycles(t *testing.T) {
	h := NewManualHost()
	var again func(Deadline)
	again = func(Deadline) { h.RequestIdle(again) }
	h.RequestIdle(again)
	assert.Panics(t, func() { h.Drain() })
}

func TestLoopHostDefaults(t *testing.T) {
	h := NewLoopHost(0, 0)
	assert.Equal(t, 16*time.Millisecond, h.Slice)
	assert.Equal(t, 50*time.Millisecond, h.IdleSleep)
	assert.True(t, h.Idle())
	assert.False(t, h.RunOnce())
}

func TestLoopHostRunOnce(t *testing.T) {
	h := NewLoopHost(time.Second, time.Millisecond)
	var got []string
	h.RequestIdle(func(d Deadline) {
		assert.Positive(t, d.TimeRemaining())
		got = append(got, "idle")
	})
	h.Post(func() { got = append(got, "task") })
	assert.False(t, h.Idle())

	assert.True(t, h.RunOnce())
	assert.Equal(t, []string{"task", "idle"}, got)
	assert.True(t, h.Idle())
}

func TestLoopHostDrivesScheduler(t *testing.T) {
	host := NewLoopHost(50*time.Millisecond, 5*time.Millisecond)
	doc := htmldom.New()
	bus := channel.New()
	s := New(Config{
		Adapter: doc,
		Host:    host,
		Bus:     bus,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	commits := make(chan struct{}, 8)
	bus.Subscribe(ChannelInspector, 1, func(...any) { commits <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- host.Run(ctx) }()

	count := reactive.NewField(0)
	host.Post(func() {
		assert.NoError(t, s.Mount(doc.Body(), element.P(nil, func() any { return count.Get() })))
	})
	waitCommit(t, commits)

	host.Post(func() { count.Set(7) })
	waitCommit(t, commits)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, `<p>7<!----></p>`, htmldom.InnerHTML(doc.Body()))
	assert.Equal(t, 2, s.Commits())
}

func waitCommit(t *testing.T, commits <-chan struct{}) {
	t.Helper()
	select {
	case <-commits:
	case <-time.After(5 * time.Second):
		t.Fatal("no commit")
	}
}
