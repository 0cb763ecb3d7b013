package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ID uint32

var nextComponentID atomic.Uint32

// Handle identifies one component kind. Values are stored by pointer.
type Handle[T any] struct {
	id   ID
	name string
}

func NewComponent[T any](name string) Handle[T] {
	return Handle[T]{id: ID(nextComponentID.Add(1)), name: name}
}

func (h Handle[T]) ID() ID {
	return h.id
}

func (h Handle[T]) Name() string {
	return h.name
}

func (h Handle[T]) Valid() bool {
	return h.id != 0
}
