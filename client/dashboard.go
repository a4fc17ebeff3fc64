package client

import (
	"context"

	"taskdeck/todo"
)

// Dashboard exposes the aggregate stats, either server-computed or derived
// locally from the current collection. It keeps no state of its own.
type Dashboard struct {
	backend Backend
}

func NewDashboard(backend Backend) *Dashboard {
	return &Dashboard{backend: backend}
}

// Fetch asks the backend for the server-side aggregates.
func (d *Dashboard) Fetch(ctx context.Context) (todo.Stats, error) {
	return d.backend.Stats(ctx)
}

// Recompute derives the stats from a local collection without touching the
// backend.
func (d *Dashboard) Recompute(todos []todo.Todo) todo.Stats {
	return todo.ComputeStats(todos)
}
