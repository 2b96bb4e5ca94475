package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Steps   int         `json:"steps"`
	Columns []string    `json:"columns"`
	Times   []float64   `json:"times"`
	Rows    [][]float64 `json:"rows"`
}

func newExport(meta RunMetadata, tr *Trace) ExportData {
	return ExportData{
		RunMetadata: meta,
		Steps:       tr.Len(),
		Columns:     tr.Columns,
		Times:       tr.Times,
		Rows:        tr.Rows,
	}
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, tr *Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExport(meta, tr))
}

func ExportJSONFile(path string, meta RunMetadata, tr *Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, tr)
}
