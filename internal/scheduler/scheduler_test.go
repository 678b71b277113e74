package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/scheduler"
)

func newTestScheduler(interval time.Duration, task func(context.Context) error) *scheduler.Scheduler {
	return scheduler.NewScheduler(zap.NewNop(), "test-task", interval, task)
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name           string
		setupScheduler func() *scheduler.Scheduler
		expectedError  error
	}{
		{
			name: "success",
			setupScheduler: func() *scheduler.Scheduler {
				return newTestScheduler(100*time.Millisecond, func(ctx context.Context) error {
					return nil
				})
			},
			expectedError: nil,
		},
		{
			name: "already running",
			setupScheduler: func() *scheduler.Scheduler {
				s := newTestScheduler(100*time.Millisecond, func(ctx context.Context) error {
					return nil
				})
				err := s.Start(context.Background())
				assert.NoError(t, err)
				return s
			},
			expectedError: scheduler.ErrSchedulerAlreadyRunning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setupScheduler()
			defer func() {
				if s.IsRunning() {
					_ = s.Stop()
				}
			}()

			err := s.Start(context.Background())
			assert.Equal(t, tt.expectedError, err)
		})
	}
}

func TestScheduler_Stop(t *testing.T) {
	tests := []struct {
		name           string
		setupScheduler func() *scheduler.Scheduler
		expectedError  error
	}{
		{
			name: "success",
			setupScheduler: func() *scheduler.Scheduler {
				s := newTestScheduler(100*time.Millisecond, func(ctx context.Context) error {
					return nil
				})
				err := s.Start(context.Background())
				assert.NoError(t, err)
				return s
			},
			expectedError: nil,
		},
		{
			name: "not running",
			setupScheduler: func() *scheduler.Scheduler {
				return newTestScheduler(100*time.Millisecond, func(ctx context.Context) error {
					return nil
				})
			},
			expectedError: scheduler.ErrSchedulerNotRunning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setupScheduler()
			err := s.Stop()
			assert.Equal(t, tt.expectedError, err)
		})
	}
}

func TestScheduler_TaskExecution(t *testing.T) {
	tests := []struct {
		name         string
		taskFunc     func(context.Context) error
		interval     time.Duration
		testDuration time.Duration
		minCalls     int
	}{
		{
			name: "task executes multiple times",
			taskFunc: func(ctx context.Context) error {
				return nil
			},
			interval:     50 * time.Millisecond,
			testDuration: 250 * time.Millisecond,
			minCalls:     4,
		},
		{
			name: "failing task keeps the loop alive",
			taskFunc: func(ctx context.Context) error {
				return errors.New("task error")
			},
			interval:     50 * time.Millisecond,
			testDuration: 150 * time.Millisecond,
			minCalls:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			callCount := 0
			taskFunc := func(ctx context.Context) error {
				mu.Lock()
				callCount++
				mu.Unlock()
				return tt.taskFunc(ctx)
			}

			s := newTestScheduler(tt.interval, taskFunc)
			err := s.Start(context.Background())
			assert.NoError(t, err)
			time.Sleep(tt.testDuration)

			err = s.Stop()
			assert.NoError(t, err)

			mu.Lock()
			calls := callCount
			mu.Unlock()
			assert.GreaterOrEqual(t, calls, tt.minCalls)
		})
	}
}

func TestScheduler_ContextCancellation(t *testing.T) {
	var mu sync.Mutex
	taskCalls := 0
	taskFunc := func(ctx context.Context) error {
		mu.Lock()
		taskCalls++
		mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestScheduler(50*time.Millisecond, taskFunc)

	err := s.Start(ctx)
	assert.NoError(t, err)
	assert.True(t, s.IsRunning())

	time.Sleep(120 * time.Millisecond)

	mu.Lock()
	callsBeforeCancel := taskCalls
	mu.Unlock()
	assert.GreaterOrEqual(t, callsBeforeCancel, 2)

	cancel()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, s.IsRunning())
}

func TestScheduler_ConcurrentStart(t *testing.T) {
	s := newTestScheduler(50*time.Millisecond, func(ctx context.Context) error {
		return nil
	})

	done := make(chan bool)
	startErrors := make(chan error, 10)

	for i := 0; i < 5; i++ {
		go func() {
			if err := s.Start(context.Background()); err != nil && err != scheduler.ErrSchedulerAlreadyRunning {
				startErrors <- err
			}
			done <- true
		}()
	}

	for i := 0; i < 5; i++ {
		<-done
	}

	assert.True(t, s.IsRunning())
	assert.Len(t, startErrors, 0)

	err := s.Stop()
	assert.NoError(t, err)
}
