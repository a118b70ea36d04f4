// Package events describes change notifications for content resources.
package events

import "time"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Resource names as they appear in routes
const (
	ResourceProjects = "projects"
	ResourceServices = "services"
)

// ResourceEvent is published after a successful mutation.
type ResourceEvent struct {
	Resource string      `json:"resource"`
	Action   Action      `json:"action"`
	ID       string      `json:"id"`
	Version  int         `json:"version,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	At       time.Time   `json:"at"`
}

// Publisher accepts events; implementations must not block the caller for long.
type Publisher interface {
	Publish(event ResourceEvent)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(ResourceEvent) {}

// Recorder keeps published events in memory, for tests.
type Recorder struct {
	Events []ResourceEvent
}

func (r *Recorder) Publish(event ResourceEvent) {
	r.Events = append(r.Events, event)
}
