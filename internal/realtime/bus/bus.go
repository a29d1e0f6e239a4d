package bus

import (
	"context"
	"time"
)

// Event reports a pipeline run entering a new state.
type Event struct {
	RunID    string    `json:"run_id"`
	ScriptID string    `json:"script_id,omitempty"`
	Topic    string    `json:"topic,omitempty"`
	State    string    `json:"state"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	StartForwarder(ctx context.Context, onEvent func(ev Event)) error
	Close() error
}
