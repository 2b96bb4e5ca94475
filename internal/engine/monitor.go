package engine

import (
	"math"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/config"
)

// monitor watches for changes the engine cannot see through its sliders:
// the mesh volume drifting (morphs changed by the user) and the character's
// scale. Either one requests a calibration.
type monitor struct {
	enabled  bool
	interval float64
	drift    float64

	paused  bool
	timer   float64
	volume  float64
	scale   float64
	checks  int
	trigger int
}

func newMonitor(cfg config.MonitorConfig) monitor {
	return monitor{
		enabled:  cfg.Enabled,
		interval: cfg.Interval,
		drift:    cfg.VolumeDrift,
		paused:   true,
	}
}

func (m *monitor) pause() { m.paused = true }

func (m *monitor) resume(scale float64) {
	m.paused = false
	m.timer = 0
	m.scale = scale
}

func (m *monitor) rebase(vols [2]float64) {
	m.volume = vols[0] + vols[1]
}

func (m *monitor) due(dt float64) bool {
	if !m.enabled || m.paused || m.interval <= 0 {
		return false
	}
	m.timer += dt
	if m.timer+1e-9 < m.interval {
		return false
	}
	m.timer = 0
	m.checks++
	return true
}

// drifted reports whether total volume moved by more than the threshold.
func (m *monitor) drifted(vols [2]float64) bool {
	if m.volume <= 0 {
		return false
	}
	return math.Abs(vols[0]+vols[1]-m.volume)/m.volume > m.drift
}

// checkDrift runs one monitor check and requests a calibration on change.
func (e *Engine) checkDrift() {
	if scale := e.host.AtomScale(); scale != e.monitor.scale {
		e.logger.Info("character scale changed", "from", e.monitor.scale, "to", scale)
		e.requestFromMonitor("atom-scale")
		return
	}
	if !e.mass.AutoUpdate() {
		return
	}
	vols, err := e.volumes()
	if err != nil {
		e.logger.Debug("monitor volume check skipped", "error", err)
		return
	}
	if e.monitor.drifted(vols) {
		e.logger.Info("breast volume drifted", "from", e.monitor.volume, "to", vols[0]+vols[1])
		e.requestFromMonitor("volume-drift")
	}
}

func (e *Engine) requestFromMonitor(reason string) {
	e.monitor.trigger++
	e.monitor.pause()
	e.orch.Request(calibrate.Request{UpdateMass: true, Reason: reason})
}

// MonitorStats returns how many checks ran and how many requested a
// calibration.
func (e *Engine) MonitorStats() (checks, triggers int) {
	return e.monitor.checks, e.monitor.trigger
}
