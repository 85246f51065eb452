// Package storage keeps saved runs on disk: one directory per run holding
// metadata.json and serum.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/physiosim/internal/config"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

const (
	metadataFile = "metadata.json"
	serumFile    = "serum.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	logger  *zap.Logger
}

func New(baseDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Summary is the headline of a run's evaluation and safety snapshot.
type Summary struct {
	NetScore        float64  `json:"net_score"`
	Ratio           float64  `json:"ratio"`
	WeightedBenefit float64  `json:"weighted_benefit"`
	WeightedRisk    float64  `json:"weighted_risk"`
	SystemLoad      float64  `json:"system_load"`
	Dominant        string   `json:"dominant"`
	IsCritical      bool     `json:"is_critical"`
	Warnings        []string `json:"warnings,omitempty"`
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Config       *config.Config     `json:"config"`
	Compounds    []string           `json:"compounds"`
	DtHours      float64            `json:"dt_hours"`
	DurationDays float64            `json:"duration_days"`
	Summary      Summary            `json:"summary"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Summarize condenses an evaluation and snapshot for storage and listing.
func Summarize(eval stack.Result, snap systemic.Snapshot) Summary {
	sum := Summary{
		NetScore:        eval.NetScore,
		Ratio:           eval.Ratio,
		WeightedBenefit: eval.WeightedBenefit,
		WeightedRisk:    eval.WeightedRisk,
		SystemLoad:      snap.Load.Total,
		Dominant:        snap.Load.Dominant,
		IsCritical:      snap.Load.IsCritical,
	}
	for _, w := range eval.Warnings {
		sum.Warnings = append(sum.Warnings, w.Kind)
	}
	return sum
}

// Save writes a run and returns its id.
func (s *Store) Save(cfg *config.Config, sum Summary, result *serum.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Timestamp: time.Now().UTC(),
		Config:    cfg,
		DtHours:   cfg.Serum.DtHours,
		Summary:   sum,
	}
	if result != nil {
		meta.Compounds = result.Compounds
		meta.Metrics = result.Metrics
		if n := len(result.Hours); n > 0 {
			meta.DurationDays = result.Hours[n-1] / 24
		}
		if len(result.Hours) > 1 {
			meta.DtHours = result.Hours[1] - result.Hours[0]
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, serumFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if result != nil {
		if err := ExportCSV(csvFile, result); err != nil {
			return "", err
		}
	}

	s.logger.Info("run saved", zap.String("id", runID), zap.String("dir", runDir), zap.Int("compounds", len(meta.Compounds)))
	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping unreadable run", zap.String("id", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads a run's serum trajectory back.
func (s *Store) LoadSeries(runID string) (*serum.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, serumFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses the layout written by ExportCSV. Unparseable cells read as 0.
func ReadCSV(r io.Reader) (*serum.Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	res := &serum.Result{Levels: make(map[string][]float64), Metrics: make(map[string]float64)}
	if len(records) == 0 {
		return res, nil
	}
	header := records[0]
	if len(header) < 3 || header[0] != "hour" || header[len(header)-1] != serum.SeriesTotal {
		return nil, fmt.Errorf("unexpected serum header %v", header)
	}
	res.Compounds = append(res.Compounds, header[2:len(header)-1]...)

	parse := func(v string) float64 {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		res.Hours = append(res.Hours, parse(record[0]))
		for i, c := range res.Compounds {
			res.Levels[c] = append(res.Levels[c], parse(record[2+i]))
		}
		res.Total = append(res.Total, parse(record[len(record)-1]))
	}
	res.StepsTaken = len(res.Hours)
	return res, nil
}
