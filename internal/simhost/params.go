package simhost

import (
	"fmt"

	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/tracker"
)

// RegisterParams makes names known to the host with a value of 0. Unknown
// names are rejected by SetScalar and Scalar, as a real host would.
func (c *Character) RegisterParams(names ...string) {
	for _, n := range names {
		if _, ok := c.params[n]; !ok {
			c.params[n] = 0
		}
	}
}

func (c *Character) SetScalar(name string, v float64) error {
	if _, ok := c.params[name]; !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownParameter, name)
	}
	c.params[name] = v
	c.writes++
	return nil
}

func (c *Character) Scalar(name string) (float64, error) {
	v, ok := c.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", host.ErrUnknownParameter, name)
	}
	return v, nil
}

func (c *Character) WakePhysics() { c.wakes++ }

// Writes and Wakes count SetScalar and WakePhysics calls.
func (c *Character) Writes() int { return c.writes }
func (c *Character) Wakes() int  { return c.wakes }

// ParamCount returns the number of registered parameters.
func (c *Character) ParamCount() int { return len(c.params) }

// param reads a per-side physics scalar, falling back when it is missing or
// not yet pushed.
func (c *Character) param(name string, side tracker.Side, fallback float64) float64 {
	v, ok := c.params[name+" "+side.Suffix()]
	if !ok || v == 0 {
		return fallback
	}
	return v
}
