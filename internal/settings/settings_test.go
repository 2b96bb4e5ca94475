package settings

import (
	"errors"
	"path/filepath"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := Open(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatal(err)
	}
	sq, err := Open(filepath.Join(dir, "settings.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sq.Close() })

	if _, ok := fs.(*FileStore); !ok {
		t.Fatalf("expected FileStore, got %T", fs)
	}
	if _, ok := sq.(*SQLStore); !ok {
		t.Fatalf("expected SQLStore, got %T", sq)
	}
	return map[string]Store{"file": fs, "sqlite": sq}
}

func TestStores(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := Values{"softness": 70, "quickness": -20, "gravityPhysics.up": 1.5}
			if err := st.Save("jiggly", want); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := st.Save("firm", Values{"softness": 10}); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := st.Load("jiggly")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for k, v := range want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}

			// saving again replaces the set
			if err := st.Save("jiggly", Values{"softness": 5}); err != nil {
				t.Fatal(err)
			}
			got, _ = st.Load("jiggly")
			if len(got) != 1 || got["softness"] != 5 {
				t.Errorf("after overwrite got %v", got)
			}

			names, err := st.List()
			if err != nil {
				t.Fatal(err)
			}
			if len(names) != 2 || names[0] != "firm" || names[1] != "jiggly" {
				t.Errorf("list = %v", names)
			}

			if err := st.Delete("firm"); err != nil {
				t.Fatal(err)
			}
			if _, err := st.Load("firm"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if err := st.Delete("firm"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestInvalidNames(t *testing.T) {
	for name, st := range stores(t) {
		for _, bad := range []string{"", "../escape", ".hidden", "a b"} {
			if err := st.Save(bad, Values{}); !errors.Is(err, ErrInvalidName) {
				t.Errorf("%s: Save(%q) = %v", name, bad, err)
			}
		}
	}
}
