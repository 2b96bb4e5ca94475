package simhost

import (
	"fmt"

	"github.com/san-kum/bodycal/internal/host"
)

// Scene is the set of engine instances that can see each other's
// calibration lock.
type Scene struct {
	members []host.Sibling
}

func NewScene() *Scene { return &Scene{} }

func (s *Scene) Add(sib host.Sibling) { s.members = append(s.members, sib) }

func (s *Scene) Siblings(selfID string) []host.Sibling {
	out := make([]host.Sibling, 0, len(s.members))
	for _, m := range s.members {
		if m.ID() != selfID {
			out = append(out, m)
		}
	}
	return out
}

// FlagSibling is a scripted sibling whose bool parameters are set directly.
type FlagSibling struct {
	id    string
	flags map[string]bool
}

func NewFlagSibling(id string) *FlagSibling {
	return &FlagSibling{id: id, flags: make(map[string]bool)}
}

func (f *FlagSibling) ID() string { return f.id }

func (f *FlagSibling) Set(name string, v bool) { f.flags[name] = v }

func (f *FlagSibling) BoolParam(name string) (bool, error) {
	v, ok := f.flags[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", host.ErrUnknownParameter, name)
	}
	return v, nil
}
