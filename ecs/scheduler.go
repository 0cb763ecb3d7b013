package ecs

// System advances one entity by one frame.
type System interface {
	Update(w *World, e Entity)
}

// Scheduler runs systems in a fixed order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// Update runs every system for e, in order.
func (s *Scheduler) Update(w *World, e Entity) {
	if s == nil || w == nil {
		return
	}
	for _, system := range s.systems {
		if system != nil {
			system.Update(w, e)
		}
	}
}
