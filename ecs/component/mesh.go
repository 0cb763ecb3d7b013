package component

import "github.com/milk9111/evostage/host"

// MeshState remembers what was last sent to the host so visibility calls go
// out only on change.
type MeshState struct {
	Applied map[host.Token]bool
}

// Forget drops the applied cache; every mesh is re-sent next frame.
func (m *MeshState) Forget() {
	m.Applied = nil
}

var MeshStateComponent = NewComponent[MeshState]("mesh_state")
