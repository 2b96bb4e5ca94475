package storage

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Trace is a table of per-tick values sharing one time column.
type Trace struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns one column's values, or nil if it is not in the trace.
func (t *Trace) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

func (t *Trace) Len() int { return len(t.Times) }

func (t *Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, t.Columns...)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(t.Times[i], 'f', 6, 64))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Probe names one per-side parameter to record every tick.
type Probe struct {
	Name string
	Side tracker.Side
}

func (p Probe) Column() string { return p.Name + " " + p.Side.Suffix() }

// ValueSource reads current parameter values. *engine.Engine satisfies it.
type ValueSource interface {
	Value(name string, side tracker.Side) (float64, bool)
}

var snapshotColumns = []string{
	"live", "mass", "pitch", "roll",
	"angleV L", "angleH L", "depth L",
	"angleV R", "angleH R", "depth R",
	"writes",
}

// Recorder is an engine observer that appends one trace row per tick.
type Recorder struct {
	src    ValueSource
	probes []Probe
	trace  Trace
}

func NewRecorder(src ValueSource, probes ...Probe) *Recorder {
	r := &Recorder{src: src, probes: probes}
	r.trace.Columns = append(r.trace.Columns, snapshotColumns...)
	for _, p := range probes {
		r.trace.Columns = append(r.trace.Columns, p.Column())
	}
	return r
}

func (r *Recorder) OnTick(s engine.Snapshot) {
	live := 0.0
	if s.Live {
		live = 1
	}
	l, rt := s.Samples[tracker.Left], s.Samples[tracker.Right]
	row := []float64{
		live, s.Mass, s.Orientation.Pitch, s.Orientation.Roll,
		l.AngleVertical, l.AngleHorizontal, l.DepthOffset,
		rt.AngleVertical, rt.AngleHorizontal, rt.DepthOffset,
		float64(s.Writes),
	}
	for _, p := range r.probes {
		v, _ := r.src.Value(p.Name, p.Side)
		row = append(row, v)
	}
	r.trace.Times = append(r.trace.Times, s.Time)
	r.trace.Rows = append(r.trace.Rows, row)
}

func (r *Recorder) Trace() *Trace { return &r.trace }
