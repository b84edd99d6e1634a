package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidEvent marks an envelope missing a field consumers key on.
var ErrInvalidEvent = errors.New("invalid event")

// Aggregate names what an event is about. ID is also the message key, so
// every event for one aggregate lands on one partition, in order.
type Aggregate struct {
	Type string
	ID   string
}

// Event is the envelope every published message uses.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// EventOption adjusts an envelope built by NewEvent.
type EventOption func(*Event)

// WithMetadata sets one metadata entry.
func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]string)
		}
		e.Metadata[key] = value
	}
}

// WithVersion sets the payload schema version. The default is 1.
func WithVersion(v int) EventOption {
	return func(e *Event) { e.Version = v }
}

// NewEvent wraps data in an envelope with a fresh ID and UTC timestamp.
func NewEvent(eventType, source string, agg Aggregate, data any, opts ...EventOption) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	e := &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   agg.ID,
		AggregateType: agg.Type,
		Version:       1,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          raw,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Aggregate returns the aggregate the event belongs to.
func (e *Event) Aggregate() Aggregate {
	return Aggregate{Type: e.AggregateType, ID: e.AggregateID}
}

// Validate reports ErrInvalidEvent when a keyed field is empty.
func (e *Event) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	case e.EventType == "":
		return fmt.Errorf("%w: missing event_type", ErrInvalidEvent)
	case e.AggregateID == "":
		return fmt.Errorf("%w: %s has no aggregate_id", ErrInvalidEvent, e.EventType)
	case e.Version < 1:
		return fmt.Errorf("%w: %s has version %d", ErrInvalidEvent, e.EventType, e.Version)
	}
	return nil
}

// Marshal serializes the envelope.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses and validates an envelope.
func DecodeEvent(raw []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// DecodePayload decodes the data field into target.
func (e *Event) DecodePayload(target any) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.EventType, err)
	}
	return nil
}
