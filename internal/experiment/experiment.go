// Package experiment drives one engine on a simulated character in fixed
// steps, the way a host's physics loop would.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/bodycal/internal/config"
	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/simhost"
	"github.com/san-kum/bodycal/internal/tracker"
)

// ErrNeverLive means the engine did not finish its first calibration
// within the allowed time.
var ErrNeverLive = errors.New("experiment: engine never went live")

type Session struct {
	cfg    *config.Config
	char   *simhost.Character
	engine *engine.Engine
	steps  int
}

// New builds a character from the named registry entry and an engine
// bound to it.
func New(cfg *config.Config, character string, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	spec, err := DefaultRegistry().Character(character)
	if err != nil {
		return nil, err
	}
	opts := spec.Options
	opts.Seed = cfg.Seed

	char, err := simhost.NewCatalog(opts)
	if err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}
	for _, side := range tracker.Sides {
		char.SetSize(side, spec.Size)
	}

	eng := engine.New(char, engine.Options{
		Config:   cfg,
		Logger:   logger,
		Vertices: [2][]int{char.VertexIndices(tracker.Left), char.VertexIndices(tracker.Right)},
	})
	if err := eng.Init(); err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, char: char, engine: eng}, nil
}

func (s *Session) Engine() *engine.Engine        { return s.engine }
func (s *Session) Character() *simhost.Character { return s.char }
func (s *Session) Config() *config.Config        { return s.cfg }
func (s *Session) Steps() int                    { return s.steps }
func (s *Session) Time() float64                 { return float64(s.steps) * s.cfg.Dt }

// Step advances the character, then the engine, by one fixed timestep.
func (s *Session) Step() error {
	s.char.Step(s.cfg.Dt)
	s.steps++
	return s.engine.FixedUpdate(s.cfg.Dt)
}

// Advance runs whole steps covering the given number of seconds.
func (s *Session) Advance(ctx context.Context, seconds float64) error {
	n := int(seconds/s.cfg.Dt + 0.5)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntilLive steps until the engine is live and idle, for at most limit
// seconds.
func (s *Session) RunUntilLive(ctx context.Context, limit float64) error {
	n := int(limit/s.cfg.Dt + 0.5)
	for i := 0; i < n; i++ {
		if s.engine.Live() && !s.engine.Busy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	if s.engine.Live() && !s.engine.Busy() {
		return nil
	}
	return fmt.Errorf("%w after %.1fs", ErrNeverLive, limit)
}
