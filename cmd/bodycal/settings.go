package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/settings"
)

func openStore() (settings.Store, error) {
	path := storePath
	if path == "" {
		path = filepath.Join(dataDir, "settings")
	}
	return settings.Open(path)
}

func saveSettings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, "")
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	values := settings.Values(s.Engine().Settings())
	if err := st.Save(args[0], values); err != nil {
		return err
	}
	fmt.Printf("saved %d settings as %s\n", len(values), args[0])
	return nil
}

func loadSettings(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	values, err := st.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, "")
	if err != nil {
		return err
	}
	applyErr := s.Engine().ApplySettings(values)
	if applyErr != nil && !errors.Is(applyErr, engine.ErrUnknownSetting) {
		return applyErr
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%g\n", k, values[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if applyErr != nil {
		fmt.Printf("\nwarning: %v\n", applyErr)
	}
	return nil
}

func listSettings(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := st.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no settings saved")
		return nil
	}
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	return nil
}

func deleteSettings(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(args[0])
}
