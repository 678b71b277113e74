package service

import (
	"context"

	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/models"
)

// MessageService is the ingress/egress adapter pair: it turns webhook
// payloads and send requests into canonical records and hands them to the
// store.
type MessageService interface {
	RecordInbound(ctx context.Context, from, to, body string, mediaURLs []string) (*models.Message, error)
	Send(ctx context.Context, to, body, mediaURL string) (*SendOutcome, error)
	GetCircuitBreakerStatus() (state api.HealthResponseCircuitBreakerState, requests uint32, failures uint32)
}

// ThreadService derives read views from the store: the contact list and
// per-contact ordered threads. It holds no state of its own.
type ThreadService interface {
	ListContacts(ctx context.Context) ([]string, error)
	GetThread(ctx context.Context, phone string) ([]*models.Message, error)
	RecentMessages(ctx context.Context, limit int) ([]*models.Message, error)
}

// SweeperService runs the optional retention sweep on the disk backend.
type SweeperService interface {
	Start() error
	Stop() error
	IsRunning() bool
	Enabled() bool
}

type HealthService interface {
	GetHealth(ctx context.Context) *HealthStatus
}
