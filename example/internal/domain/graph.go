package domain

import "time"

// Component is the wire representation of one node in a running
// container's dependency graph, as observed at a point in time.
type Component struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	DependsOn []string      `json:"depends_on,omitempty"`
	Status    string        `json:"status"`
	Error     *string       `json:"error,omitempty"`
	Delay     time.Duration `json:"delay"`
}

type Graph struct {
	ID         string      `json:"id"`
	Components []Component `json:"components"`
	Status     string      `json:"status"`
}
