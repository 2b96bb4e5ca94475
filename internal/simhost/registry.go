package simhost

import (
	"github.com/san-kum/bodycal/internal/morph"
	"github.com/san-kum/bodycal/internal/response"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

// RegisterCatalog registers every parameter and built-in morph the engine
// drives, for both sides.
func (c *Character) RegisterCatalog() error {
	defs := tuning.Catalog()
	for _, side := range tracker.Sides {
		c.RegisterParams(tuning.HostNames(defs, side)...)
		c.RegisterParams(response.NippleErectionMorph + " " + side.Suffix())
		for _, coll := range []string{morph.CollectionGravity, morph.CollectionForce} {
			names, err := morph.BuiltinNames(coll)
			if err != nil {
				return err
			}
			for _, n := range names {
				c.RegisterParams(morph.HostName(n, side))
			}
		}
	}
	return nil
}

// NewCatalog is New followed by RegisterCatalog.
func NewCatalog(opts Options) (*Character, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	if err := c.RegisterCatalog(); err != nil {
		return nil, err
	}
	return c, nil
}
