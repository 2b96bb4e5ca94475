package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bodycal/internal/simhost"
)

// CharacterSpec describes a simulated character: rig options plus a
// uniform breast size factor.
type CharacterSpec struct {
	Description string
	Options     simhost.Options
	Size        float64
}

type Registry struct {
	characters map[string]func() CharacterSpec
}

func NewRegistry() *Registry {
	return &Registry{characters: make(map[string]func() CharacterSpec)}
}

// DefaultRegistry holds the built-in characters.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("default", func() CharacterSpec {
		return CharacterSpec{"medium size, no idle animation", simhost.DefaultOptions(), 1}
	})
	r.Register("swaying", func() CharacterSpec {
		opts := simhost.DefaultOptions()
		opts.Sway = 4
		return CharacterSpec{"medium size with idle sway", opts, 1}
	})
	r.Register("small", func() CharacterSpec {
		return CharacterSpec{"small size", simhost.DefaultOptions(), 0.75}
	})
	r.Register("large", func() CharacterSpec {
		return CharacterSpec{"large size", simhost.DefaultOptions(), 1.3}
	})
	r.Register("euler", func() CharacterSpec {
		opts := simhost.DefaultOptions()
		opts.Integrator = "euler"
		opts.Substeps = 8
		return CharacterSpec{"medium size on the explicit Euler integrator", opts, 1}
	})
	return r
}

func (r *Registry) Register(name string, fn func() CharacterSpec) {
	r.characters[name] = fn
}

func (r *Registry) Character(name string) (CharacterSpec, error) {
	if name == "" {
		name = "default"
	}
	fn, ok := r.characters[name]
	if !ok {
		return CharacterSpec{}, fmt.Errorf("unknown character: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListCharacters() []string {
	names := make([]string, 0, len(r.characters))
	for name := range r.characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
