package operations

import "fmt"

// Named is a transform as it appears in the tool bar.
type Named struct {
	Name  string
	Label string
	Apply Transform
}

// Registry keeps transforms in registration order.
type Registry struct {
	entries []Named
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// DefaultRegistry holds the built-in pure Go transforms.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Named{Name: "grayscale", Label: "grayscale", Apply: Grayscale})
	r.MustRegister(Named{Name: "invert", Label: "invert", Apply: Invert})
	return r
}

func (r *Registry) Register(n Named) error {
	if n.Name == "" || n.Apply == nil {
		return fmt.Errorf("transform needs a name and a function")
	}
	if _, exists := r.index[n.Name]; exists {
		return fmt.Errorf("transform %q already registered", n.Name)
	}
	if n.Label == "" {
		n.Label = n.Name
	}
	r.index[n.Name] = len(r.entries)
	r.entries = append(r.entries, n)
	return nil
}

func (r *Registry) MustRegister(n Named) {
	if err := r.Register(n); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (Named, bool) {
	i, ok := r.index[name]
	if !ok {
		return Named{}, false
	}
	return r.entries[i], true
}

// All returns the registered transforms in order.
func (r *Registry) All() []Named {
	out := make([]Named, len(r.entries))
	copy(out, r.entries)
	return out
}
