// Package models defines data structures used throughout the application.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ppopeskul/sms-relay/internal/phone"
)

// Direction tells which way a message crossed the relay.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

var (
	ErrMissingParty     = errors.New("message requires both from and to numbers")
	ErrMissingContent   = errors.New("message requires a body or media")
	ErrInvalidDirection = errors.New("invalid message direction")
)

// Message is the sole persisted entity: one SMS/MMS that crossed the relay.
// ID is the idempotency key; a second write with the same ID replaces the
// record in place. Seq is assigned by storage and breaks timestamp ties.
type Message struct {
	ID        string         `db:"id" json:"id"`
	From      string         `db:"from_number" json:"from"`
	To        string         `db:"to_number" json:"to"`
	Body      string         `db:"body" json:"body"`
	Direction Direction      `db:"direction" json:"direction"`
	At        time.Time      `db:"at" json:"at"`
	MediaURLs pq.StringArray `db:"media_urls" json:"mediaUrls,omitempty"`
	Seq       int64          `db:"seq" json:"-"`
}

// NewInbound builds an inbound record from webhook fields. Phones are
// normalized and a fresh id and write timestamp are assigned.
func NewInbound(from, to, body string, mediaURLs []string) (*Message, error) {
	m := &Message{
		ID:        GenerateID(),
		From:      phone.Normalize(from),
		To:        phone.Normalize(to),
		Body:      body,
		Direction: DirectionInbound,
		At:        time.Now().UTC(),
		MediaURLs: mediaURLs,
	}
	return m, m.validate()
}

// NewOutbound builds an outbound record keyed by the provider's message id.
// An empty id falls back to a generated one.
func NewOutbound(id, from, to, body string, mediaURLs []string) (*Message, error) {
	if id == "" {
		id = GenerateID()
	}
	m := &Message{
		ID:        id,
		From:      phone.Normalize(from),
		To:        phone.Normalize(to),
		Body:      body,
		Direction: DirectionOutbound,
		At:        time.Now().UTC(),
		MediaURLs: mediaURLs,
	}
	return m, m.validate()
}

func (m *Message) validate() error {
	if m.From == "" || m.To == "" {
		return ErrMissingParty
	}
	if m.Body == "" && len(m.MediaURLs) == 0 {
		return ErrMissingContent
	}
	if m.Direction != DirectionInbound && m.Direction != DirectionOutbound {
		return ErrInvalidDirection
	}
	return nil
}

// Contact returns the phone of the other party: the sender for inbound
// messages, the recipient for outbound ones.
func (m *Message) Contact() string {
	if m.Direction == DirectionInbound {
		return phone.Normalize(m.From)
	}
	return phone.Normalize(m.To)
}

// Involves reports whether the given normalized phone is either party.
func (m *Message) Involves(p string) bool {
	return phone.Normalize(m.From) == p || phone.Normalize(m.To) == p
}

// GenerateID produces a system-assigned message id: write timestamp plus a
// random suffix so concurrent writers never collide.
func GenerateID() string {
	return fmt.Sprintf("IN%d-%s", time.Now().UTC().UnixNano(), uuid.NewString()[:8])
}
