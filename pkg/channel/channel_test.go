package channel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/vango-dev/weft/internal/errors"
)

func TestOpenIsIdempotent(t *testing.T) {
	b := New()
	b.Subscribe(1, 10, func(...any) {})
	b.Open(1)
	assert.Equal(t, 1, b.Len(1), "reopening must keep subscribers")
	assert.True(t, b.Has(1))
}

func TestSubscribeReplacesByID(t *testing.T) {
	b := New()
	var calls []string

	b.Subscribe(1, 10, func(...any) { calls = append(calls, "first") })
	b.Subscribe(1, 20, func(...any) { calls = append(calls, "other") })
	b.Subscribe(1, 10, func(...any) { calls = append(calls, "second") })

	require.NoError(t, b.Emit(1))
	assert.Equal(t, []string{"second", "other"}, calls)
	assert.Equal(t, 2, b.Len(1))
}

func TestEmitPassesArguments(t *testing.T) {
	b := New()
	var got []any
	b.Subscribe(7, 1, func(args ...any) { got = args })

	require.NoError(t, b.Emit(7, "a", 2))
	assert.Equal(t, []any{"a", 2}, got)
}

func TestEmitUnopened(t *testing.T) {
	b := New()
	err := b.Emit(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoChannel))

	var werr *werrors.Error
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "E020", werr.Code)
}

func TestUnsubscribe(t *testing.T) {
	b := New()

	t.Run("unopened", func(t *testing.T) {
		assert.ErrorIs(t, b.Unsubscribe(5, 1), ErrNoChannel)
	})

	t.Run("absent subscriber", func(t *testing.T) {
		b.Open(6)
		assert.NoError(t, b.Unsubscribe(6, 1))
	})

	t.Run("removes", func(t *testing.T) {
		called := false
		b.Subscribe(8, 1, func(...any) { called = true })
		require.NoError(t, b.Unsubscribe(8, 1))
		require.NoError(t, b.Emit(8))
		assert.False(t, called)
	})
}

func TestClose(t *testing.T) {
	b := New()
	b.Subscribe(3, 1, func(...any) {})
	b.Close(3)
	assert.False(t, b.Has(3))
	assert.ErrorIs(t, b.Emit(3), ErrNoChannel)

	// Unknown keys are ignored.
	b.Close(42)
}

func TestReentrantMutation(t *testing.T) {
	b := New()
	var order []int

	b.Subscribe(1, 1, func(...any) {
		order = append(order, 1)
		// Removing a later subscriber mid-emit must not panic and the
		// snapshot still delivers to it.
		_ = b.Unsubscribe(1, 2)
		b.Subscribe(1, 3, func(...any) { order = append(order, 3) })
	})
	b.Subscribe(1, 2, func(...any) { order = append(order, 2) })

	require.NoError(t, b.Emit(1))
	assert.Equal(t, []int{1, 2}, order)

	order = nil
	require.NoError(t, b.Emit(1))
	assert.Equal(t, []int{1, 3}, order)
}

func TestNestedEmit(t *testing.T) {
	b := New()
	var got []uint64
	b.Subscribe(1, 1, func(...any) {
		got = append(got, 1)
		_ = b.Emit(2)
	})
	b.Subscribe(2, 1, func(...any) { got = append(got, 2) })

	require.NoError(t, b.Emit(1))
	assert.Equal(t, []uint64{1, 2}, got)
}

func TestKeys(t *testing.T) {
	b := New()
	b.Open(3)
	b.Open(1)
	b.Open(2)
	assert.Equal(t, []uint64{1, 2, 3}, b.Keys())
}
