package tasks_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arghyam/sunbird-android-sdk/internal/tasks"
	"github.com/stretchr/testify/require"
)

func TestRunnerExecutesSubmittedTasks(t *testing.T) {
	runner := tasks.NewRunner(2, 16)
	runner.Start(context.Background())

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		ok := runner.Submit("task", func(context.Context) {
			done.Add(1)
		})
		require.True(t, ok)
	}

	runner.Close()
	require.EqualValues(t, 5, done.Load())
}

func TestSubmitAfterCloseIsRefused(t *testing.T) {
	runner := tasks.NewRunner(1, 4)
	runner.Start(context.Background())
	runner.Close()

	ok := runner.Submit("late", func(context.Context) {})
	require.False(t, ok)
}

func TestSubmitRacingCloseNeverPanics(t *testing.T) {
	runner := tasks.NewRunner(2, 4)
	runner.Start(context.Background())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					runner.Submit("racer", func(context.Context) {})
				}
			}
		}()
	}

	runner.Close()
	close(stop)
	wg.Wait()

	require.False(t, runner.Submit("late", func(context.Context) {}))
}

func TestSubmitOnFullQueueIsRefused(t *testing.T) {
	// Never started, so nothing drains the queue.
	runner := tasks.NewRunner(1, 1)

	require.True(t, runner.Submit("first", func(context.Context) {}))
	require.False(t, runner.Submit("second", func(context.Context) {}))
}
