package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"txboard/internal/core"
)

// Routing keys of the dataset load events.
const (
	RoutingLoaded     = "dataset.loaded"
	RoutingLoadFailed = "dataset.load_failed"
)

// LoadEvent reports the outcome of the dashboard's single dataset load.
type LoadEvent struct {
	Type         string             `json:"type"`
	Source       string             `json:"source,omitempty"`
	Customers    int                `json:"customers"`
	Transactions int                `json:"transactions"`
	Orphans      int                `json:"orphans"`
	Reason       core.FailureReason `json:"reason,omitempty"`
	Error        string             `json:"error,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// NewLoadedEvent describes a successful load.
func NewLoadedEvent(stats core.Stats) *LoadEvent {
	return &LoadEvent{
		Type:         RoutingLoaded,
		Source:       stats.Source,
		Customers:    stats.Customers,
		Transactions: stats.Transactions,
		Orphans:      stats.Orphans,
		Timestamp:    time.Now(),
	}
}

// NewLoadFailedEvent describes a failed load.
func NewLoadFailedEvent(err error) *LoadEvent {
	ev := &LoadEvent{Type: RoutingLoadFailed, Timestamp: time.Now()}
	if err != nil {
		ev.Error = err.Error()
	}
	var le *core.LoadError
	if errors.As(err, &le) {
		ev.Source = le.Source
		ev.Reason = le.Reason
	}
	return ev
}

// ToJSON converts the message to JSON bytes
func (m *LoadEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LoadEventFromJSON creates a message from JSON bytes
func LoadEventFromJSON(data []byte) (*LoadEvent, error) {
	var msg LoadEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
