package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"khata/internal/core"
)

// Event kinds carried on the ledger events queue.
const (
	EventEntryAdded = "entry_added"
	EventGoalAdded  = "goal_added"
)

// LedgerEventMessage carries one full record per event. The archive worker
// writes it straight to its own database without calling back into the API,
// so the payload has to be complete.
type LedgerEventMessage struct {
	EventID   string      `json:"event_id"`
	Kind      string      `json:"kind"`
	Entry     *core.Entry `json:"entry,omitempty"`
	Goal      *core.Goal  `json:"goal,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEntryAddedMessage wraps a freshly recorded entry in an event envelope
func NewEntryAddedMessage(e core.Entry) *LedgerEventMessage {
	return &LedgerEventMessage{
		EventID:   uuid.NewString(),
		Kind:      EventEntryAdded,
		Entry:     &e,
		Timestamp: time.Now(),
	}
}

// NewGoalAddedMessage wraps a freshly recorded goal in an event envelope
func NewGoalAddedMessage(g core.Goal) *LedgerEventMessage {
	return &LedgerEventMessage{
		EventID:   uuid.NewString(),
		Kind:      EventGoalAdded,
		Goal:      &g,
		Timestamp: time.Now(),
	}
}

// Validate checks that the event is identifiable and that the payload
// matches the declared kind
func (m *LedgerEventMessage) Validate() error {
	if m.EventID == "" {
		return fmt.Errorf("event without id: kind %q", m.Kind)
	}
	switch m.Kind {
	case EventEntryAdded:
		if m.Entry == nil {
			return fmt.Errorf("event %s: %s without entry payload", m.EventID, m.Kind)
		}
	case EventGoalAdded:
		if m.Goal == nil {
			return fmt.Errorf("event %s: %s without goal payload", m.EventID, m.Kind)
		}
	default:
		return fmt.Errorf("event %s: unknown kind %q", m.EventID, m.Kind)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
