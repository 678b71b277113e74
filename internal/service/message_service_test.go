package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/models"
	"github.com/ppopeskul/sms-relay/internal/provider"
	"github.com/ppopeskul/sms-relay/internal/repository"
	"github.com/ppopeskul/sms-relay/internal/repository/mocks"
	"github.com/ppopeskul/sms-relay/internal/service"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Provider: config.ProviderConfig{
			AccountSID: "AC0000000000000000000000000000test",
			AuthToken:  "test-auth-token",
			FromNumber: "+15550000000",
			BaseURL:    baseURL,
			Timeout:    5,
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxRequests:      10,
				Interval:         60,
				Timeout:          60,
				FailureRatio:     0.6,
				ConsecutiveFails: 5,
			},
		},
	}
}

func testRedis() *redis.Client {
	// Non-existent server; the SID cache is best effort.
	return redis.NewClient(&redis.Options{Addr: "localhost:9999"})
}

func newMessageService(cfg *config.Config, repo repository.Repository) service.MessageService {
	logger := zap.NewNop()
	providerClient := provider.NewClient(&cfg.Provider, logger)
	return service.NewMessageService(cfg, repo, providerClient, testRedis(), logger)
}

func TestMessageService_RecordInbound_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)
	mockRepo.EXPECT().Messages().Return(mockMessageRepo).AnyTimes()

	var stored *models.Message
	mockMessageRepo.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) error {
			stored = msg
			return nil
		})

	svc := newMessageService(testConfig(""), mockRepo)

	msg, err := svc.RecordInbound(context.Background(), " +15551234567 ", "+15550000000", "hello", []string{"https://example.com/a.jpg"})

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, stored.ID, msg.ID)
	assert.Equal(t, "+15551234567", msg.From)
	assert.Equal(t, models.DirectionInbound, msg.Direction)
	assert.Len(t, msg.MediaURLs, 1)
}

func TestMessageService_RecordInbound_Failure(t *testing.T) {
	tests := []struct {
		name          string
		from          string
		to            string
		body          string
		setupMocks    func(*mocks.MockRepository, *mocks.MockMessageRepository)
		expectedError error
	}{
		{
			name: "missing sender",
			from: "",
			to:   "+15550000000",
			body: "hello",
			setupMocks: func(mockRepo *mocks.MockRepository, mockMessageRepo *mocks.MockMessageRepository) {
			},
			expectedError: service.ErrValidation,
		},
		{
			name: "empty payload",
			from: "+15551234567",
			to:   "+15550000000",
			body: "",
			setupMocks: func(mockRepo *mocks.MockRepository, mockMessageRepo *mocks.MockMessageRepository) {
			},
			expectedError: service.ErrValidation,
		},
		{
			name: "storage failure propagates",
			from: "+15551234567",
			to:   "+15550000000",
			body: "hello",
			setupMocks: func(mockRepo *mocks.MockRepository, mockMessageRepo *mocks.MockMessageRepository) {
				mockRepo.EXPECT().Messages().Return(mockMessageRepo)
				mockMessageRepo.EXPECT().
					Put(gomock.Any(), gomock.Any()).
					Return(&repository.StorageError{Op: "put", Err: errors.New("disk full")})
			},
			expectedError: repository.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockRepository(ctrl)
			mockMessageRepo := mocks.NewMockMessageRepository(ctrl)
			tt.setupMocks(mockRepo, mockMessageRepo)

			svc := newMessageService(testConfig(""), mockRepo)

			msg, err := svc.RecordInbound(context.Background(), tt.from, tt.to, tt.body, nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, msg)
		})
	}
}

func TestMessageService_Send_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "/Accounts/")

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15551234567", r.PostFormValue("To"))
		assert.Equal(t, "+15550000000", r.PostFormValue("From"))
		assert.Equal(t, "hello there", r.PostFormValue("Body"))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM123abc"})
	}))
	defer server.Close()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)
	mockRepo.EXPECT().Messages().Return(mockMessageRepo).AnyTimes()

	var stored *models.Message
	mockMessageRepo.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) error {
			stored = msg
			return nil
		})

	svc := newMessageService(testConfig(server.URL), mockRepo)

	outcome, err := svc.Send(context.Background(), "+15551234567", "hello there", "")

	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Empty(t, outcome.Warning)
	assert.Equal(t, "SM123abc", outcome.Message.ID)
	assert.Equal(t, models.DirectionOutbound, outcome.Message.Direction)
	assert.Equal(t, "+15550000000", stored.From)
	assert.Equal(t, "+15551234567", stored.To)
}

func TestMessageService_Send_GeneratesIDWhenProviderOmitsSID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)
	mockRepo.EXPECT().Messages().Return(mockMessageRepo).AnyTimes()
	mockMessageRepo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	svc := newMessageService(testConfig(server.URL), mockRepo)

	outcome, err := svc.Send(context.Background(), "+15551234567", "hello", "")

	require.NoError(t, err)
	assert.NotEmpty(t, outcome.Message.ID)
}

func TestMessageService_Send_DegradedWhenNotRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM456def"})
	}))
	defer server.Close()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)
	mockRepo.EXPECT().Messages().Return(mockMessageRepo).AnyTimes()
	mockMessageRepo.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		Return(&repository.StorageError{Op: "put", Err: errors.New("disk full")})

	svc := newMessageService(testConfig(server.URL), mockRepo)

	outcome, err := svc.Send(context.Background(), "+15551234567", "hello", "")

	// The provider accepted the message, so the send still succeeds.
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, "SM456def", outcome.Message.ID)
	assert.Equal(t, service.WarningNotRecorded, outcome.Warning)
}

func TestMessageService_Send_Failure(t *testing.T) {
	tests := []struct {
		name          string
		to            string
		body          string
		mediaURL      string
		cfg           func(baseURL string) *config.Config
		serverStatus  int
		expectedError error
	}{
		{
			name:          "missing destination",
			to:            "   ",
			body:          "hello",
			cfg:           testConfig,
			expectedError: service.ErrValidation,
		},
		{
			name:          "missing content",
			to:            "+15551234567",
			body:          "",
			mediaURL:      "",
			cfg:           testConfig,
			expectedError: service.ErrValidation,
		},
		{
			name: "missing credentials",
			to:   "+15551234567",
			body: "hello",
			cfg: func(baseURL string) *config.Config {
				cfg := testConfig(baseURL)
				cfg.Provider.AuthToken = ""
				return cfg
			},
			expectedError: service.ErrConfiguration,
		},
		{
			name:          "provider rejects message",
			to:            "+15551234567",
			body:          "hello",
			cfg:           testConfig,
			serverStatus:  http.StatusBadRequest,
			expectedError: service.ErrTransmission,
		},
		{
			name:          "provider unavailable",
			to:            "+15551234567",
			body:          "hello",
			cfg:           testConfig,
			serverStatus:  http.StatusInternalServerError,
			expectedError: service.ErrTransmission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			var server *httptest.Server
			baseURL := "http://localhost:1"
			if tt.serverStatus != 0 {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.serverStatus)
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"code":    21211,
						"message": "invalid destination",
					})
				}))
				defer server.Close()
				baseURL = server.URL
			}

			// A failed transmission never reaches storage.
			mockRepo := mocks.NewMockRepository(ctrl)

			svc := newMessageService(tt.cfg(baseURL), mockRepo)

			outcome, err := svc.Send(context.Background(), tt.to, tt.body, tt.mediaURL)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, outcome)
		})
	}
}

func TestMessageService_GetCircuitBreakerStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)

	svc := newMessageService(testConfig(""), mockRepo)

	state, requests, failures := svc.GetCircuitBreakerStatus()

	assert.Equal(t, api.Closed, state)
	assert.Equal(t, uint32(0), requests)
	assert.Equal(t, uint32(0), failures)
}

func TestMessageService_CircuitBreakerOpensOnRepeatedFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	mockRepo := mocks.NewMockRepository(ctrl)

	cfg := testConfig(server.URL)
	cfg.Provider.CircuitBreaker.ConsecutiveFails = 2
	cfg.Provider.CircuitBreaker.MaxRequests = 3

	svc := newMessageService(cfg, mockRepo)

	for i := 0; i < 5; i++ {
		_, _ = svc.Send(context.Background(), "+15551234567", "hello", "")
	}

	state, _, _ := svc.GetCircuitBreakerStatus()
	assert.Equal(t, api.Open, state)
}
