package calibrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/bodycal/internal/host"
)

// LockParam is the boolean every instance publishes while it calibrates.
const LockParam = "calibrationLock"

// SceneLock is a flag shared with sibling instances through their published
// bool parameters. It is polled, never pushed, so readers may see a stale
// value for one poll interval.
type SceneLock struct {
	id     string
	scene  host.Scene
	logger *slog.Logger
	held   bool
}

func NewSceneLock(id string, scene host.Scene, logger *slog.Logger) *SceneLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &SceneLock{id: id, scene: scene, logger: logger}
}

// ID makes the lock usable as the instance's host.Sibling.
func (l *SceneLock) ID() string { return l.id }

// BoolParam publishes the lock flag to siblings.
func (l *SceneLock) BoolParam(name string) (bool, error) {
	if name != LockParam {
		return false, fmt.Errorf("%w: %s", host.ErrUnknownParameter, name)
	}
	return l.held, nil
}

func (l *SceneLock) Held() bool { return l.held }
func (l *SceneLock) Acquire()   { l.held = true }
func (l *SceneLock) Release()   { l.held = false }

// HeldByOthers reports whether any sibling holds the lock. A sibling whose
// flag cannot be read counts as not holding it; its error is returned
// alongside the answer.
func (l *SceneLock) HeldByOthers() (bool, error) {
	if l.scene == nil {
		return false, nil
	}
	var errs []error
	for _, s := range l.scene.Siblings(l.id) {
		held, err := s.BoolParam(LockParam)
		if err != nil {
			errs = append(errs, fmt.Errorf("sibling %s: %w", s.ID(), err))
			continue
		}
		if held {
			return true, errors.Join(errs...)
		}
	}
	return false, errors.Join(errs...)
}
