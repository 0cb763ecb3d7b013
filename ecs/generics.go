package ecs

import "github.com/milk9111/evostage/ecs/component"

// Add attaches value to e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, handle component.Handle[T], value *T) error {
	if w == nil || !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !handle.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(handle.ID(), true)[e] = value
	return nil
}

// Get returns the component of e. The pointer is live; mutate it in place.
func Get[T any](w *World, e Entity, handle component.Handle[T]) (*T, bool) {
	if w == nil {
		return nil, false
	}
	raw, ok := w.store(handle.ID(), false)[e]
	if !ok {
		return nil, false
	}
	value, ok := raw.(*T)
	return value, ok && value != nil
}

func Has[T any](w *World, e Entity, handle component.Handle[T]) bool {
	_, ok := Get(w, e, handle)
	return ok
}

// ForEach visits every entity carrying the component, in ascending order.
func ForEach[T any](w *World, handle component.Handle[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Entities() {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}
