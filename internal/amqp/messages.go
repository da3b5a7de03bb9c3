package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a ledger event on the wire. It doubles as routing key
// suffix.
type EventType string

const (
	EventTransactionAdded   EventType = "transaction.added"
	EventTransactionDeleted EventType = "transaction.deleted"
	EventRecurringTick      EventType = "recurring.tick"
	EventNotification       EventType = "notification"
	EventImported           EventType = "ledger.imported"
	EventCleared            EventType = "ledger.cleared"
)

// Event is the envelope published for every ledger change. Payload holds
// the type-specific document.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals payload into a new envelope stamped with at.
func NewEvent(typ EventType, payload any, at time.Time) (*Event, error) {
	e := &Event{Type: typ, Timestamp: at}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
		}
		e.Payload = b
	}
	return e, nil
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an envelope and rejects ones without a type.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Type == "" {
		return nil, fmt.Errorf("event without type")
	}
	return &e, nil
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.Type)
	}
	return json.Unmarshal(e.Payload, v)
}

// TickSummary is the payload of EventRecurringTick.
type TickSummary struct {
	Reference time.Time `json:"reference"`
	Generated int       `json:"generated"`
	RuleIDs   []int64   `json:"ruleIds"`
}
