package ecs

import "github.com/milk9111/evostage/host"

// Entity is the host's identifier for a fighter. Entities are never
// allocated by the world; they are inserted the first frame the host
// presents them and removed on explicit lifecycle calls.
type Entity = host.EntityID
