package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/physiosim/internal/serum"
)

type ExportData struct {
	Run       *RunMetadata         `json:"run,omitempty"`
	Steps     int                  `json:"steps"`
	Hours     []float64            `json:"hours"`
	Compounds []string             `json:"compounds"`
	Levels    map[string][]float64 `json:"levels"`
	Total     []float64            `json:"total"`
	Metrics   map[string]float64   `json:"metrics"`
}

// ExportJSON writes a trajectory, with optional run metadata, as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, result *serum.Result) error {
	data := ExportData{
		Run:       meta,
		Steps:     len(result.Hours),
		Hours:     result.Hours,
		Compounds: result.Compounds,
		Levels:    result.Levels,
		Total:     result.Total,
		Metrics:   result.Metrics,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes one row per sample: hour, day, each compound, total.
func ExportCSV(w io.Writer, result *serum.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"hour", "day"}
	header = append(header, result.Compounds...)
	header = append(header, serum.SeriesTotal)
	if err := cw.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for i, h := range result.Hours {
		row := []string{format(h), format(h / 24)}
		for _, c := range result.Compounds {
			row = append(row, format(result.Levels[c][i]))
		}
		row = append(row, format(result.Total[i]))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
