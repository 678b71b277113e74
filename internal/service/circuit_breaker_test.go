package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/service"
)

func breakerConfig() *config.CircuitBreakerConfig {
	return &config.CircuitBreakerConfig{
		MaxRequests:      3,
		Interval:         10,
		Timeout:          60,
		FailureRatio:     0.5,
		ConsecutiveFails: 3,
	}
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	cb := service.NewCircuitBreaker(breakerConfig(), zap.NewNop())

	err := cb.Execute(context.Background(), func() error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, api.Closed, cb.GetState())
}

func TestCircuitBreaker_Execute_Failure(t *testing.T) {
	tests := []struct {
		name           string
		setupFunc      func(*service.CircuitBreaker)
		function       func() error
		cancelContext  bool
		expectedErrMsg string
	}{
		{
			name: "function returns error",
			function: func() error {
				return errors.New("test error")
			},
			expectedErrMsg: "test error",
		},
		{
			name: "context cancelled",
			function: func() error {
				return nil
			},
			cancelContext:  true,
			expectedErrMsg: "context canceled",
		},
		{
			name: "circuit breaker open",
			setupFunc: func(cb *service.CircuitBreaker) {
				for i := 0; i < 10; i++ {
					_ = cb.Execute(context.Background(), func() error {
						return errors.New("failure")
					})
				}
			},
			function: func() error {
				return nil
			},
			expectedErrMsg: "service unavailable: circuit breaker is open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := service.NewCircuitBreaker(breakerConfig(), zap.NewNop())

			if tt.setupFunc != nil {
				tt.setupFunc(cb)
			}

			ctx := context.Background()
			if tt.cancelContext {
				var cancel context.CancelFunc
				ctx, cancel = context.WithCancel(ctx)
				cancel()
			}

			err := cb.Execute(ctx, tt.function)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
		})
	}
}

func TestCircuitBreaker_GetCounts(t *testing.T) {
	cfg := breakerConfig()
	cfg.FailureRatio = 0.9
	cfg.ConsecutiveFails = 10
	cb := service.NewCircuitBreaker(cfg, zap.NewNop())

	requests, failures := cb.GetCounts()
	assert.Equal(t, uint32(0), requests)
	assert.Equal(t, uint32(0), failures)

	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Execute(context.Background(), func() error {
			return nil
		}))
	}
	_ = cb.Execute(context.Background(), func() error {
		return errors.New("failure")
	})

	requests, failures = cb.GetCounts()
	assert.Equal(t, uint32(4), requests)
	assert.Equal(t, uint32(1), failures)
}

func TestCircuitBreaker_StateTransitions(t *testing.T) {
	cfg := breakerConfig()
	cfg.Timeout = 1
	cfg.ConsecutiveFails = 2
	cb := service.NewCircuitBreaker(cfg, zap.NewNop())

	assert.Equal(t, api.Closed, cb.GetState())

	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), func() error {
			return errors.New("failure")
		})
	}

	assert.Equal(t, api.Open, cb.GetState())

	err := cb.Execute(context.Background(), func() error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")

	// Wait for the open timeout to elapse.
	time.Sleep(2 * time.Second)

	assert.Equal(t, api.HalfOpen, cb.GetState())

	for i := 0; i < 3; i++ {
		if err := cb.Execute(context.Background(), func() error {
			return nil
		}); err != nil {
			break
		}
	}

	state := cb.GetState()
	assert.True(t, state == api.Closed || state == api.HalfOpen,
		"expected Closed or HalfOpen after successful requests, got %s", state)
}
