package morph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

func TestUpdateValue_SignGate(t *testing.T) {
	effects := []float64{-2, -1, -0.3, 0, 0.3, 1, 2}
	masses := []float64{0, 0.5, 1}
	multipliers := []float64{-1.5, -0.2, 0, 0.4, 1.2}

	for _, negative := range []bool{true, false} {
		for _, e := range effects {
			for _, m := range masses {
				for _, k := range multipliers {
					c := &Config{Name: "m", IsNegative: negative, SoftnessMultiplier: k, MassMultiplier: -k / 2}
					v := c.UpdateValue(e, m, 0.7)
					if negative && v > 0 {
						t.Fatalf("negative morph went positive: effect=%v mass=%v k=%v -> %v", e, m, k, v)
					}
					if !negative && v < 0 {
						t.Fatalf("positive morph went negative: effect=%v mass=%v k=%v -> %v", e, m, k, v)
					}
				}
			}
		}
	}
}

func TestUpdateValue_Formula(t *testing.T) {
	c := &Config{SoftnessMultiplier: 1.2, MassMultiplier: 0.8}
	got := c.UpdateValue(0.5, 0.4, 0.6)
	want := 0.6*1.2*0.5/2 + 0.4*0.8*0.5/2
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	c.Reset()
	if c.Value() != 0 {
		t.Error("Reset should zero the value")
	}
}

func TestDecodeEncode(t *testing.T) {
	src := `{"B": {"IsNegative": true, "Multiplier1": -0.5, "Multiplier2": -1},
	         "A": {"IsNegative": false, "Multiplier1": 1.5, "Multiplier2": 0.25}}`
	cfgs, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 2 || cfgs[0].Name != "A" || cfgs[1].Name != "B" {
		t.Fatalf("expected sorted [A B], got %v", cfgs)
	}
	if !cfgs[1].IsNegative || cfgs[1].MassMultiplier != -1 {
		t.Errorf("B decoded wrong: %+v", cfgs[1])
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cfgs); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if again[0].SoftnessMultiplier != 1.5 {
		t.Errorf("re-decoded A: %+v", again[0])
	}
}

func TestLoadBuiltin(t *testing.T) {
	for _, coll := range []string{CollectionForce, CollectionGravity} {
		sets, err := LoadBuiltin(coll, tracker.Right)
		if err != nil {
			t.Fatalf("%s: %v", coll, err)
		}
		if len(sets) != len(param.Directions) {
			t.Fatalf("%s: expected %d sets, got %d", coll, len(param.Directions), len(sets))
		}
		for i, s := range sets {
			if s.Direction != param.Directions[i] || s.Side != tracker.Right || len(s.Morphs) == 0 {
				t.Errorf("%s: bad set %+v", coll, s)
			}
		}
	}
}

func TestSaveLoadDir(t *testing.T) {
	sets, err := LoadBuiltin(CollectionForce, tracker.Left)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := SaveDir(dir, sets[:2]); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadDir(dir, CollectionForce, tracker.Left)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[1].Direction != param.Down {
		t.Errorf("expected up and down sets, got %d", len(loaded))
	}
}

func TestHostName(t *testing.T) {
	if got := HostName("TM_Sag1", tracker.Left); got != "TM_Sag1 L" {
		t.Errorf("HostName = %q", got)
	}
}
