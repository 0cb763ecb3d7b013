// Package resource binds logical, entity-scoped effect and sound keys to
// host handles. It is the only code that creates or destroys a handle.
package resource

import (
	"log/slog"
	"sort"

	"github.com/milk9111/evostage/host"
)

// Backend is the host side of one resource kind.
type Backend interface {
	Exists(h host.Handle) bool
	Destroy(h host.Handle)
}

// Key names a binding. Keys are always scoped to one entity.
type Key struct {
	Name   string
	Entity host.EntityID
}

func (k Key) String() string {
	return k.Name + "#" + k.Entity.String()
}

// Binding is a live logical resource.
type Binding struct {
	Key                Key
	Handle             host.Handle
	SpawnFrame         uint64
	TargetVisibleFrame uint64
	LastStatus         int32
}

// SyncOptions enables the preserve rule for effects that only become
// visible after a latency.
type SyncOptions struct {
	TargetVisibleFrame uint64
	Status             int32
}

// Stats counts host calls issued by a manager.
type Stats struct {
	Spawned   int
	Destroyed int
	Stale     int
	Refused   int
}

// Manager holds the bindings of one resource kind for every entity.
type Manager struct {
	name     string
	backend  Backend
	now      uint64
	bindings map[Key]*Binding
	byEntity map[host.EntityID]map[Key]struct{}
	stats    Stats
	logger   *slog.Logger
}

func NewManager(name string, backend Backend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		name:     name,
		backend:  backend,
		bindings: make(map[Key]*Binding),
		byEntity: make(map[host.EntityID]map[Key]struct{}),
		logger:   logger,
	}
}

// BeginFrame sets the frame stamped on new bindings.
func (m *Manager) BeginFrame(frame uint64) {
	m.now = frame
}

// Sync makes the binding for key match cond. See SyncWith.
func (m *Manager) Sync(key Key, cond bool, factory func() host.Handle) bool {
	return m.SyncWith(key, cond, SyncOptions{}, factory)
}

// SyncWith creates the resource once when cond holds and no live binding
// exists, destroys it once when cond stops holding, and otherwise leaves it
// alone. It reports whether a live binding exists afterwards.
func (m *Manager) SyncWith(key Key, cond bool, opts SyncOptions, factory func() host.Handle) bool {
	b := m.bindings[key]
	if b != nil && !m.backend.Exists(b.Handle) {
		m.stats.Stale++
		m.logger.Debug("resource: stale handle", "manager", m.name, "key", key.String(), "handle", b.Handle)
		m.forget(b)
		b = nil
	}

	if !cond {
		if b != nil {
			m.destroy(b)
		}
		return false
	}

	if b != nil {
		if opts.TargetVisibleFrame == 0 || opts.Status == b.LastStatus {
			return true
		}
		if m.now-b.SpawnFrame >= opts.TargetVisibleFrame {
			b.LastStatus = opts.Status
			return true
		}
		// Not yet visible: respawn under the new status, keeping its age.
		m.backend.Destroy(b.Handle)
		m.stats.Destroyed++
		h := m.spawn(key, factory)
		if !h.Valid() {
			m.forget(b)
			return false
		}
		b.Handle = h
		b.LastStatus = opts.Status
		return true
	}

	h := m.spawn(key, factory)
	if !h.Valid() {
		return false
	}
	b = &Binding{
		Key:                key,
		Handle:             h,
		SpawnFrame:         m.now,
		TargetVisibleFrame: opts.TargetVisibleFrame,
		LastStatus:         opts.Status,
	}
	m.bindings[key] = b
	keys, ok := m.byEntity[key.Entity]
	if !ok {
		keys = make(map[Key]struct{})
		m.byEntity[key.Entity] = keys
	}
	keys[key] = struct{}{}
	return true
}

func (m *Manager) spawn(key Key, factory func() host.Handle) host.Handle {
	if factory == nil {
		return 0
	}
	h := factory()
	if !h.Valid() {
		m.stats.Refused++
		m.logger.Debug("resource: host refused", "manager", m.name, "key", key.String())
		return 0
	}
	m.stats.Spawned++
	return h
}

func (m *Manager) destroy(b *Binding) {
	m.backend.Destroy(b.Handle)
	m.stats.Destroyed++
	m.forget(b)
}

func (m *Manager) forget(b *Binding) {
	delete(m.bindings, b.Key)
	if keys, ok := m.byEntity[b.Key.Entity]; ok {
		delete(keys, b.Key)
		if len(keys) == 0 {
			delete(m.byEntity, b.Key.Entity)
		}
	}
}

// DestroyEntity destroys every binding owned by e and returns how many live
// handles it killed.
func (m *Manager) DestroyEntity(e host.EntityID) int {
	n := 0
	for _, b := range m.Bindings(e) {
		if m.backend.Exists(b.Handle) {
			m.destroy(b)
			n++
			continue
		}
		m.forget(b)
	}
	return n
}

// DestroyAll destroys every binding of every entity and returns how many
// it destroyed.
func (m *Manager) DestroyAll() int {
	n := 0
	for e := range m.byEntity {
		n += m.DestroyEntity(e)
	}
	return n
}

// Live reports whether key has a binding the host still knows.
func (m *Manager) Live(key Key) bool {
	b, ok := m.bindings[key]
	return ok && m.backend.Exists(b.Handle)
}

// Binding returns a copy of the binding for key.
func (m *Manager) Binding(key Key) (Binding, bool) {
	b, ok := m.bindings[key]
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// Bindings returns the bindings of e sorted by name.
func (m *Manager) Bindings(e host.EntityID) []*Binding {
	keys := m.byEntity[e]
	out := make([]*Binding, 0, len(keys))
	for k := range keys {
		out = append(out, m.bindings[k])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Name < out[j].Key.Name })
	return out
}

// Len returns the number of bindings held for e.
func (m *Manager) Len(e host.EntityID) int {
	return len(m.byEntity[e])
}

func (m *Manager) Stats() Stats {
	return m.stats
}
