package metrics

import "github.com/san-kum/bodycal/internal/engine"

// Writes counts host parameter writes. Every write also wakes the host
// solver, so this is the wake-up count as well.
type Writes struct {
	total int
}

func NewWrites() *Writes { return &Writes{} }

func (w *Writes) Name() string { return "writes" }

func (w *Writes) Observe(s engine.Snapshot) { w.total += s.Writes }

func (w *Writes) Value() float64 { return float64(w.total) }

func (w *Writes) Reset() { w.total = 0 }

// WriteRate is the mean number of host writes per live tick.
type WriteRate struct {
	writes int
	ticks  int
}

func NewWriteRate() *WriteRate { return &WriteRate{} }

func (r *WriteRate) Name() string { return "writes_per_tick" }

func (r *WriteRate) Observe(s engine.Snapshot) {
	if !s.Live {
		return
	}
	r.writes += s.Writes
	r.ticks++
}

func (r *WriteRate) Value() float64 {
	if r.ticks == 0 {
		return 0
	}
	return float64(r.writes) / float64(r.ticks)
}

func (r *WriteRate) Reset() {
	r.writes = 0
	r.ticks = 0
}
