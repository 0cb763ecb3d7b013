package ecs

import (
	"log/slog"
	"sort"

	"github.com/milk9111/evostage/ecs/component"
)

// World is the process-wide per-entity table. It holds one store per
// component kind, each keyed by entity.
type World struct {
	alive  map[Entity]struct{}
	stores map[component.ID]map[Entity]any
	events EventQueue
	logger *slog.Logger
}

// NewWorld creates an empty world. A nil logger falls back to slog.Default.
func NewWorld(logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		alive:  make(map[Entity]struct{}),
		stores: make(map[component.ID]map[Entity]any),
		logger: logger,
	}
}

// Insert registers e. It returns false if e was already present.
func (w *World) Insert(e Entity) bool {
	if w == nil {
		return false
	}
	if _, ok := w.alive[e]; ok {
		return false
	}
	w.alive[e] = struct{}{}
	return true
}

// DestroyEntity removes e and every component attached to it.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil {
		return false
	}
	if _, ok := w.alive[e]; !ok {
		return false
	}
	delete(w.alive, e)
	for _, store := range w.stores {
		delete(store, e)
	}
	return true
}

// IsAlive reports whether e is present.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	_, ok := w.alive[e]
	return ok
}

// Entities returns the present entities in ascending order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.alive))
	for e := range w.alive {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) Logger() *slog.Logger {
	if w == nil || w.logger == nil {
		return slog.Default()
	}
	return w.logger
}

func (w *World) store(id component.ID, create bool) map[Entity]any {
	s, ok := w.stores[id]
	if !ok && create {
		s = make(map[Entity]any)
		w.stores[id] = s
	}
	return s
}
