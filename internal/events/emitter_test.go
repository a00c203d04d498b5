package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewBatchCompletionEvent(BatchCompletionPayload{BatchID: "batch_6_10_1", Age: 6, Count: 10})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, ErrNoHandlers)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event, err := NewBatchCompletionEvent(BatchCompletionPayload{BatchID: "batch_8_20_1", Age: 8, Count: 20})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(logger)

		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{
			HandlerError: errors.New("task queue is full"),
		}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		event, err := NewBatchCompletionEvent(BatchCompletionPayload{BatchID: "b", Age: 6, Count: 1})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "task queue is full")

		// both handlers still received the event
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})

	t.Run("handler func", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(nil)
		var got string
		emitter.RegisterHandler(EventHandlerFunc(func(ctx context.Context, event *TaskRequestEvent) error {
			got = event.Type
			return nil
		}))

		event, err := NewBatchCompletionEvent(BatchCompletionPayload{BatchID: "b"})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, TypeBatchCompletion, got)
	})
}
