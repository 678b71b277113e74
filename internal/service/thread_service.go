package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppopeskul/sms-relay/internal/models"
	"github.com/ppopeskul/sms-relay/internal/phone"
	"github.com/ppopeskul/sms-relay/internal/repository"
)

// threadService derives the contact and thread views. Pure reads: the same
// store contents always produce the same output.
type threadService struct {
	repo repository.Repository
}

func NewThreadService(repo repository.Repository) ThreadService {
	return &threadService{repo: repo}
}

// ListContacts collects the other party of every stored message into an
// ordered set, sorted lexicographically ascending.
func (s *threadService) ListContacts(ctx context.Context) ([]string, error) {
	messages, err := s.repo.Messages().ScanAll(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	seen := make(map[string]struct{})
	contacts := make([]string, 0, len(messages))
	for _, msg := range messages {
		contact := msg.Contact()
		if contact == "" {
			continue
		}
		if _, ok := seen[contact]; ok {
			continue
		}
		seen[contact] = struct{}{}
		contacts = append(contacts, contact)
	}

	sort.Strings(contacts)
	return contacts, nil
}

// GetThread returns every message exchanged with the given phone, oldest
// first. An empty phone yields an empty thread, not an error.
func (s *threadService) GetThread(ctx context.Context, p string) ([]*models.Message, error) {
	key := phone.Normalize(p)
	if key == "" {
		return []*models.Message{}, nil
	}

	messages, err := s.repo.Messages().ScanByParty(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to scan thread: %w", err)
	}
	return messages, nil
}

// RecentMessages returns the newest limit records across all contacts,
// re-reversed to ascending order for display.
func (s *threadService) RecentMessages(ctx context.Context, limit int) ([]*models.Message, error) {
	messages, err := s.repo.Messages().ScanAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
