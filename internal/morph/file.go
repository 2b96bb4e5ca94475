package morph

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

//go:embed data
var builtin embed.FS

// Built-in collections of direction sets.
const (
	CollectionForce   = "force"
	CollectionGravity = "gravity"
)

type fileEntry struct {
	IsNegative  bool    `json:"IsNegative"`
	Multiplier1 float64 `json:"Multiplier1"`
	Multiplier2 float64 `json:"Multiplier2"`
}

// Decode reads the flat direction-set schema
//
//	{"<morph>": {"IsNegative": bool, "Multiplier1": float, "Multiplier2": float}}
//
// Multiplier1 is the softness multiplier and Multiplier2 the mass multiplier.
// Morphs are returned sorted by name.
func Decode(r io.Reader) ([]*Config, error) {
	var raw map[string]fileEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode morph set: %w", err)
	}

	names := make([]string, 0, len(raw))
	for n := range raw {
		names = append(names, n)
	}
	sort.Strings(names)

	cfgs := make([]*Config, 0, len(names))
	for _, n := range names {
		e := raw[n]
		cfgs = append(cfgs, &Config{
			Name:               n,
			IsNegative:         e.IsNegative,
			SoftnessMultiplier: e.Multiplier1,
			MassMultiplier:     e.Multiplier2,
		})
	}
	return cfgs, nil
}

// Encode writes morphs in the same schema Decode reads.
func Encode(w io.Writer, cfgs []*Config) error {
	raw := make(map[string]fileEntry, len(cfgs))
	for _, c := range cfgs {
		raw[c.Name] = fileEntry{
			IsNegative:  c.IsNegative,
			Multiplier1: c.SoftnessMultiplier,
			Multiplier2: c.MassMultiplier,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// LoadBuiltin returns one set per direction from the embedded collection,
// for the given side.
func LoadBuiltin(collection string, side tracker.Side) ([]*Set, error) {
	sets := make([]*Set, 0, len(param.Directions))
	for _, d := range param.Directions {
		p := path.Join("data", collection, d.String()+".json")
		f, err := builtin.Open(p)
		if err != nil {
			return nil, fmt.Errorf("builtin %s/%s: %w", collection, d, err)
		}
		cfgs, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("builtin %s/%s: %w", collection, d, err)
		}
		sets = append(sets, &Set{Name: collection + "-" + d.String(), Direction: d, Side: side, Morphs: cfgs})
	}
	return sets, nil
}

// LoadDir reads <dir>/<direction>.json files. Directions without a file are
// skipped.
func LoadDir(dir, collection string, side tracker.Side) ([]*Set, error) {
	sets := make([]*Set, 0, len(param.Directions))
	for _, d := range param.Directions {
		p := filepath.Join(dir, d.String()+".json")
		f, err := os.Open(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfgs, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		sets = append(sets, &Set{Name: collection + "-" + d.String(), Direction: d, Side: side, Morphs: cfgs})
	}
	return sets, nil
}

// SaveDir writes one file per set, named after its direction.
func SaveDir(dir string, sets []*Set) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, s := range sets {
		f, err := os.Create(filepath.Join(dir, s.Direction.String()+".json"))
		if err != nil {
			return err
		}
		err = Encode(f, s.Morphs)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// BuiltinNames lists every morph name in a collection, without side suffix.
func BuiltinNames(collection string) ([]string, error) {
	seen := make(map[string]bool)
	sets, err := LoadBuiltin(collection, tracker.Left)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, s := range sets {
		for _, m := range s.Morphs {
			if !seen[m.Name] {
				seen[m.Name] = true
				names = append(names, m.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
