package textclass

import "sort"

// Model is anything that can score a document.
type Model interface {
	Predict(document string) float64
}

// Manager tracks versioned models under name:version keys so a payload can
// hold several model generations side by side.
type Manager struct {
	models map[string]Model
}

// NewManager returns an empty model registry.
func NewManager() *Manager {
	return &Manager{models: make(map[string]Model)}
}

// Register stores a model under a name and version, replacing any previous
// registration of the same pair.
func (m *Manager) Register(name, version string, model Model) {
	m.models[name+":"+version] = model
}

// Lookup returns the model registered under a name and version.
func (m *Manager) Lookup(name, version string) (Model, bool) {
	model, ok := m.models[name+":"+version]
	return model, ok
}

// List returns the registered name:version keys in sorted order.
func (m *Manager) List() []string {
	keys := make([]string, 0, len(m.models))
	for key := range m.models {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
