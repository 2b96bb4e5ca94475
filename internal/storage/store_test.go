package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/tracker"
)

func sampleTrace() *Trace {
	return &Trace{
		Columns: []string{"mass", "spring L"},
		Times:   []float64{0, 0.01},
		Rows:    [][]float64{{0.75, 80}, {0.75, 81.5}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Name:    "test",
		Seed:    42,
		Dt:      0.01,
		Metrics: map[string]float64{"writes": 120},
	}, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" || meta.Seed != 42 || meta.ID != runID {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["writes"] != 120 {
		t.Errorf("expected writes 120, got %f", meta.Metrics["writes"])
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if tr.Len() != 2 || len(tr.Columns) != 2 {
		t.Fatalf("expected 2 rows and 2 columns, got %d/%d", tr.Len(), len(tr.Columns))
	}
	if got := tr.Column("spring L"); got[1] != 81.5 {
		t.Errorf("spring L = %v", got)
	}
	if tr.Column("missing") != nil {
		t.Error("missing column should be nil")
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Name: "run"}, &Trace{}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// stray directories without metadata are skipped
	os.MkdirAll(filepath.Join(dir, "junk"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids collide")
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrace("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

type fakeValues map[string]float64

func (f fakeValues) Value(name string, side tracker.Side) (float64, bool) {
	v, ok := f[name+" "+side.Suffix()]
	return v, ok
}

func TestRecorder(t *testing.T) {
	src := fakeValues{"spring L": 90}
	rec := NewRecorder(src, Probe{"spring", tracker.Left}, Probe{"spring", tracker.Right})

	var s engine.Snapshot
	s.Time = 0.5
	s.Live = true
	s.Writes = 3
	s.Samples[tracker.Right].AngleVertical = -4
	rec.OnTick(s)

	tr := rec.Trace()
	if tr.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", tr.Len())
	}
	checks := map[string]float64{
		"live":     1,
		"writes":   3,
		"angleV R": -4,
		"spring L": 90,
		"spring R": 0,
	}
	for col, want := range checks {
		if got := tr.Column(col); got == nil || got[0] != want {
			t.Errorf("%s = %v, want %v", col, got, want)
		}
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "x", Name: "demo"}, sampleTrace()); err != nil {
		t.Fatal(err)
	}
	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Steps != 2 || got.Name != "demo" || len(got.Rows) != 2 {
		t.Errorf("unexpected export %+v", got)
	}
}
