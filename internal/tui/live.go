// Package tui is a terminal view for tuning one engine live on a simulated
// character.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/experiment"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/simhost"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

const historyLen = 60

type slider struct {
	label  string
	lo, hi float64
	step   float64
	get    func(e *engine.Engine) float64
	set    func(e *engine.Engine, v float64) error
}

func multiplierSlider(group string, d param.Direction) slider {
	return slider{
		label: group + "." + d.String(),
		hi:    2,
		step:  0.1,
		get: func(e *engine.Engine) float64 {
			v, _ := e.Multiplier(group, d)
			return v
		},
		set: func(e *engine.Engine, v float64) error { return e.SetMultiplier(group, d, v) },
	}
}

func defaultSliders() []slider {
	return []slider{
		{
			label: "softness", lo: 0, hi: 100, step: 5,
			get: (*engine.Engine).Softness,
			set: (*engine.Engine).SetSoftness,
		},
		{
			label: "quickness", lo: -100, hi: 100, step: 10,
			get: (*engine.Engine).Quickness,
			set: (*engine.Engine).SetQuickness,
		},
		{
			label: "nipple erection", lo: 0, hi: 1, step: 0.1,
			get: (*engine.Engine).NippleErection,
			set: func(e *engine.Engine, v float64) error {
				e.SetNippleErection(v)
				return nil
			},
		},
		multiplierSlider(engine.GravityPhysics, param.Down),
		multiplierSlider(engine.GravityPhysics, param.Up),
		multiplierSlider(engine.ForcePhysics, param.Up),
		multiplierSlider(engine.ForcePhysics, param.Outward),
	}
}

// watched parameters shown per side
var watched = []string{tuning.Spring, tuning.Damper, tuning.TargetRotationX, tuning.TargetRotationY}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	session *experiment.Session
	sliders []slider
	cursor  int
	paused  bool
	speed   int
	status  string
	err     error
	history [2][]float64

	width  int
	height int
}

// New returns the live tuning model for a session.
func New(s *experiment.Session) tea.Model {
	return model{
		session: s,
		sliders: defaultSliders(),
		speed:   1,
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.err == nil {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) advance(steps int) {
	for i := 0; i < steps; i++ {
		if err := m.session.Step(); err != nil {
			m.err = err
			return
		}
	}
	snap := m.session.Engine().Snapshot()
	for _, side := range tracker.Sides {
		m.history[side] = append(m.history[side], snap.Samples[side].AngleVertical)
		if len(m.history[side]) > historyLen {
			m.history[side] = m.history[side][1:]
		}
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.session.Engine()
	char := m.session.Character()
	pose := char.Pose()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sliders)-1 {
			m.cursor++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case " ", "p":
		m.paused = !m.paused
	case "+", "=":
		m.speed = min(m.speed*2, 16)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "r":
		m.report("recalibrate", eng.RecalibratePhysics())
	case "c":
		m.report("calculate mass", eng.CalculateBreastMass())
	case "w":
		char.SetPose(simhost.Pose{Pitch: pose.Pitch - 15, Roll: pose.Roll})
	case "s":
		char.SetPose(simhost.Pose{Pitch: pose.Pitch + 15, Roll: pose.Roll})
	case "a":
		char.SetPose(simhost.Pose{Pitch: pose.Pitch, Roll: max(pose.Roll-0.25, -1)})
	case "d":
		char.SetPose(simhost.Pose{Pitch: pose.Pitch, Roll: min(pose.Roll+0.25, 1)})
	case "0":
		char.SetPose(simhost.Pose{})
	case "f":
		char.SetAnimationFrozen(!char.AnimationFrozen())
	}
	return m, nil
}

func (m *model) nudge(dir float64) {
	sl := m.sliders[m.cursor]
	eng := m.session.Engine()
	v := sl.get(eng) + dir*sl.step
	v = max(sl.lo, min(v, sl.hi))
	m.report(fmt.Sprintf("%s = %.2f", sl.label, v), sl.set(eng, v))
}

func (m *model) report(what string, err error) {
	switch {
	case err == nil:
		m.status = what
	case errors.Is(err, calibrate.ErrCalibrationInProgress):
		m.status = what + " (queued)"
	default:
		m.status = what + ": " + err.Error()
	}
}

func (m model) View() string {
	eng := m.session.Engine()
	snap := eng.Snapshot()
	var b strings.Builder

	stateIcon, stateText := green.Render("●"), green.Render("live")
	switch {
	case m.err != nil:
		stateIcon, stateText = red.Render("✕"), red.Render(m.err.Error())
	case snap.State != calibrate.Idle:
		stateIcon, stateText = yellow.Render("◐"), yellow.Render(snap.State.String())
	case !snap.Live:
		stateIcon, stateText = dim.Render("○"), dim.Render("idle")
	}
	if m.paused {
		stateText += dim.Render("  paused")
	}

	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		stateIcon, cyan.Render("bodycal"), stateText,
		dim.Render(fmt.Sprintf("t=%.1fs  x%d", snap.Time, m.speed))))
	b.WriteString(fmt.Sprintf("   %s %s  %s %s  %s %s\n\n",
		dim.Render("mass"), white.Render(fmt.Sprintf("%.3f", snap.Mass)),
		dim.Render("pitch"), white.Render(fmt.Sprintf("%6.1f°", snap.Orientation.Pitch)),
		dim.Render("roll"), white.Render(fmt.Sprintf("%5.2f", snap.Orientation.Roll))))

	var sl strings.Builder
	for i, s := range m.sliders {
		v := s.get(eng)
		line := fmt.Sprintf("%-22s %s %7.2f", s.label, bar(v, s.lo, s.hi, 20), v)
		if i == m.cursor {
			sl.WriteString(cyan.Render("▸ ") + white.Render(line) + "\n")
		} else {
			sl.WriteString("  " + dim.Render(line) + "\n")
		}
	}
	b.WriteString(panel.Render(strings.TrimRight(sl.String(), "\n")) + "\n")

	var pv strings.Builder
	pv.WriteString(dim.Render(fmt.Sprintf("%-18s %10s %10s", "", "L", "R")) + "\n")
	for _, name := range watched {
		l, _ := eng.Value(name, tracker.Left)
		r, _ := eng.Value(name, tracker.Right)
		pv.WriteString(fmt.Sprintf("%-18s %s %s\n", dim.Render(name),
			magenta.Render(fmt.Sprintf("%10.3f", l)), magenta.Render(fmt.Sprintf("%10.3f", r))))
	}
	b.WriteString(panel.Render(strings.TrimRight(pv.String(), "\n")) + "\n")

	for _, side := range tracker.Sides {
		b.WriteString(fmt.Sprintf("   %s %s %s\n", dim.Render("angleV "+side.Suffix()),
			cyan.Render(sparkline(m.history[side], 40)),
			white.Render(fmt.Sprintf("%6.2f°", snap.Samples[side].AngleVertical))))
	}

	if m.status != "" {
		b.WriteString("\n   " + yellow.Render(m.status) + "\n")
	}
	b.WriteString("\n" + dim.Render("   ↑↓ select  ←→ adjust  wasd pose  0 upright  f freeze  r recalibrate  c mass  space pause  ±speed  q quit") + "\n")

	return lipgloss.NewStyle().MaxWidth(max(m.width, 40)).Render(b.String())
}

// Run blocks until the user quits.
func Run(s *experiment.Session) error {
	p := tea.NewProgram(New(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
