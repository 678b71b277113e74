package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/provider"
)

func providerConfig(baseURL string) *config.ProviderConfig {
	return &config.ProviderConfig{
		AccountSID: "AC0000000000000000000000000000test",
		AuthToken:  "test-auth-token",
		FromNumber: "+15550000000",
		BaseURL:    baseURL,
		Timeout:    5,
	}
}

func TestClient_SendMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/Accounts/AC0000000000000000000000000000test/Messages.json", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC0000000000000000000000000000test", user)
		assert.Equal(t, "test-auth-token", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15551234567", r.PostFormValue("To"))
		assert.Equal(t, "+15550000000", r.PostFormValue("From"))
		assert.Equal(t, "hello", r.PostFormValue("Body"))
		assert.Equal(t, "https://example.com/a.jpg", r.PostFormValue("MediaUrl"))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM123abc"})
	}))
	defer server.Close()

	client := provider.NewClient(providerConfig(server.URL), zap.NewNop())

	result, err := client.SendMessage(context.Background(), provider.SendRequest{
		To:       "+15551234567",
		From:     "+15550000000",
		Body:     "hello",
		MediaURL: "https://example.com/a.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "SM123abc", result.SID)
}

func TestClient_SendMessage_OmitsEmptyFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.False(t, r.PostForm.Has("Body"))
		assert.False(t, r.PostForm.Has("MediaUrl"))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM1"})
	}))
	defer server.Close()

	client := provider.NewClient(providerConfig(server.URL), zap.NewNop())

	_, err := client.SendMessage(context.Background(), provider.SendRequest{
		To:   "+15551234567",
		From: "+15550000000",
	})

	require.NoError(t, err)
}

func TestClient_SendMessage_EmptyBodyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := provider.NewClient(providerConfig(server.URL), zap.NewNop())

	result, err := client.SendMessage(context.Background(), provider.SendRequest{
		To:   "+15551234567",
		From: "+15550000000",
		Body: "hello",
	})

	// An empty acknowledgment is still a success; the SID is just absent.
	require.NoError(t, err)
	assert.Empty(t, result.SID)
}

func TestClient_SendMessage_Failure(t *testing.T) {
	tests := []struct {
		name           string
		cfg            func(baseURL string) *config.ProviderConfig
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedErrMsg string
	}{
		{
			name: "missing credentials",
			cfg: func(baseURL string) *config.ProviderConfig {
				cfg := providerConfig(baseURL)
				cfg.AuthToken = ""
				return cfg
			},
			expectedErrMsg: "provider credentials are not configured",
		},
		{
			name: "error response with detail",
			cfg:  providerConfig,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code":    21211,
					"message": "invalid 'To' phone number",
				})
			},
			expectedErrMsg: "invalid 'To' phone number",
		},
		{
			name: "error response without detail",
			cfg:  providerConfig,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedErrMsg: "unexpected status code: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var server *httptest.Server
			baseURL := "http://localhost:1"
			if tt.serverResponse != nil {
				server = httptest.NewServer(http.HandlerFunc(tt.serverResponse))
				defer server.Close()
				baseURL = server.URL
			}

			client := provider.NewClient(tt.cfg(baseURL), zap.NewNop())

			result, err := client.SendMessage(context.Background(), provider.SendRequest{
				To:   "+15551234567",
				From: "+15550000000",
				Body: "hello",
			})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
			assert.Nil(t, result)
		})
	}
}

func TestClient_SendMessage_NotConfiguredSentinel(t *testing.T) {
	cfg := providerConfig("http://localhost:1")
	cfg.AccountSID = ""

	client := provider.NewClient(cfg, zap.NewNop())

	_, err := client.SendMessage(context.Background(), provider.SendRequest{
		To:   "+15551234567",
		From: "+15550000000",
		Body: "hello",
	})

	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}
