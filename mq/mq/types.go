package mq

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a step of the intent lifecycle.
type Event int

const (
	EventPlanned Event = iota
	EventConfirmed
	EventDropped
	EventCnt
)

var eventNames = [EventCnt]string{"planned", "confirmed", "dropped"}

func (e Event) String() string {
	if e < 0 || e >= EventCnt {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

func ParseEvent(s string) (Event, error) {
	for i, n := range eventNames {
		if n == s {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}

func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(b []byte) error {
	parsed, err := ParseEvent(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// IntentMessage announces a lifecycle change of one intent. Quarks is the
// amount the intent moves, zero for account creation.
type IntentMessage struct {
	WalletID uuid.UUID `json:"walletId"`
	IntentID string    `json:"intentId"`
	Kind     string    `json:"kind"`
	Event    Event     `json:"event"`
	Quarks   uint64    `json:"quarks"`
	Time     time.Time `json:"time"`
}

func (m IntentMessage) GetTopic() uuid.UUID {
	return m.WalletID
}
