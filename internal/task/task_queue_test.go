package task

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newMockTask() *MockTask {
	return NewMockTask(uuid.New(), "mock", []byte("test payload"))
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestNewTaskQueue(t *testing.T) {
	t.Parallel()

	logger := setupTestLogger()
	queue := NewTaskQueue(10, logger)

	assert.NotNil(t, queue)
	assert.Equal(t, 10, cap(queue.tasks))
	assert.False(t, queue.closed)

	// non-positive sizes still produce a usable queue
	queue = NewTaskQueue(0, logger)
	assert.Equal(t, 1, cap(queue.tasks))
}

func TestEnqueue(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(2, setupTestLogger())

	assert.NoError(t, queue.Enqueue(newMockTask()))
	assert.NoError(t, queue.Enqueue(newMockTask()))
	assert.Equal(t, 2, queue.Len())

	task3 := newMockTask()
	err := queue.Enqueue(task3)
	assert.ErrorIs(t, err, ErrQueueFull)

	// Dequeue one item to make space
	<-queue.tasks

	assert.NoError(t, queue.Enqueue(task3))
}

func TestClose(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(10, setupTestLogger())

	task := newMockTask()
	assert.NoError(t, queue.Enqueue(task))

	queue.Close()
	assert.True(t, queue.closed)

	// second close is a no-op
	queue.Close()

	err := queue.Enqueue(newMockTask())
	assert.ErrorIs(t, err, ErrQueueClosed)

	// queued tasks can still be drained
	received := <-queue.GetChannel()
	assert.Equal(t, task.ID(), received.ID())

	select {
	case _, ok := <-queue.GetChannel():
		assert.False(t, ok, "Channel should be closed")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timed out waiting for closed channel read")
	}
}

func TestConcurrentEnqueueAndClose(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(100, setupTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// either outcome is fine; sending on a closed channel is not
			_ = queue.Enqueue(newMockTask())
		}()
	}
	queue.Close()
	wg.Wait()

	count := 0
	for range queue.GetChannel() {
		count++
	}
	assert.LessOrEqual(t, count, 20)
}
