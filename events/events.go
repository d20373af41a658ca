// Package events announces listing activity to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectPropertyCreated      = "properties.created"
	SubjectPropertyUpdated      = "properties.updated"
	SubjectPropertyDeleted      = "properties.deleted"
	SubjectPropertyViewed       = "properties.viewed"
	SubjectPropertyInquired     = "properties.inquired"
	SubjectPropertyVerification = "properties.verification"
)

type PropertyEvent struct {
	PropertyID string    `json:"propertyId"`
	ActorID    string    `json:"actorId,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, event PropertyEvent) error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, event PropertyEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Connect dials NATS with the reconnect policy used by the API.
func Connect(url string, maxReconnects int, reconnectWait time.Duration, onEvent func(msg string, err error)) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("connectspace-api"),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			onEvent("NATS disconnected", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			onEvent("NATS reconnected", nil)
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			onEvent("NATS connection closed", nil)
		}),
	}
	return nats.Connect(url, options...)
}

// NopPublisher drops events; used when NATS_URL is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, PropertyEvent) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events map[string][]PropertyEvent
}

func NewRecorder() *Recorder {
	return &Recorder{Events: make(map[string][]PropertyEvent)}
}

func (r *Recorder) Publish(_ context.Context, subject string, event PropertyEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events[subject] = append(r.Events[subject], event)
	return nil
}

func (r *Recorder) Count(subject string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Events[subject])
}
