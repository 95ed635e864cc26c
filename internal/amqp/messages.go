package amqp

import (
	"encoding/json"
	"time"
)

// Event types carried on the report queue.
const (
	EventLedgerRecorded = "ledger.recorded"
	EventScenarioSaved  = "scenario.saved"
)

// ReportEvent is a lightweight message telling the worker that a month
// needs its report snapshot refreshed. The worker re-reads the affected
// rows from the database; the event carries only coordinates.
type ReportEvent struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerRecordedEvent creates the event published after a ledger write.
func NewLedgerRecordedEvent(id int64, year, month int) *ReportEvent {
	return &ReportEvent{
		Type:      EventLedgerRecorded,
		ID:        id,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// NewScenarioSavedEvent creates the event published after a scenario save.
func NewScenarioSavedEvent(id int64) *ReportEvent {
	return &ReportEvent{
		Type:      EventScenarioSaved,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ReportEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReportEventFromJSON creates an event from JSON bytes
func ReportEventFromJSON(data []byte) (*ReportEvent, error) {
	var e ReportEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
