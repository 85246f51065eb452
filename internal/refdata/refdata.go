// Package refdata loads the static reference tables: compound profiles,
// interaction pairs and goal presets. Defaults are embedded in the binary; a
// directory of YAML files can replace any of them.
package refdata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	CompoundsFile = "compounds.yaml"
	PairsFile     = "pairs.yaml"
	GoalsFile     = "goals.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Default parses the embedded tables.
func Default() (*pkpd.Reference, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return load(sub, nil)
}

// Load reads tables from dir. Files missing from dir fall back to the
// embedded defaults. An empty dir is the same as Default.
func Load(dir string, logger *zap.Logger) (*pkpd.Reference, error) {
	if dir == "" {
		return Default()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reference dir: %w", err)
	}
	return load(os.DirFS(dir), logger)
}

func load(fsys fs.FS, logger *zap.Logger) (*pkpd.Reference, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var compounds []pkpd.Compound
	if err := decode(fsys, CompoundsFile, &compounds, logger); err != nil {
		return nil, err
	}
	var pairs []pkpd.PairRecord
	if err := decode(fsys, PairsFile, &pairs, logger); err != nil {
		return nil, err
	}
	var goals map[string]pkpd.GoalPreset
	if err := decode(fsys, GoalsFile, &goals, logger); err != nil {
		return nil, err
	}

	ref := pkpd.NewReference(compounds, pairs, goals)
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", pkpd.ErrInvalidReference, err)
	}
	logger.Debug("reference tables loaded",
		zap.Int("compounds", len(compounds)),
		zap.Int("pairs", len(pairs)),
		zap.Int("goals", len(goals)),
	)
	return ref, nil
}

func decode(fsys fs.FS, name string, out any, logger *zap.Logger) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("using embedded table", zap.String("file", name))
		data, err = embedded.ReadFile("data/" + name)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Parse builds a reference from raw YAML documents. Any nil document falls
// back to the embedded table.
func Parse(compounds, pairs, goals []byte) (*pkpd.Reference, error) {
	mem := memFS{CompoundsFile: compounds, PairsFile: pairs, GoalsFile: goals}
	return load(mem, nil)
}

type memFS map[string][]byte

func (m memFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (m memFS) ReadFile(name string) ([]byte, error) {
	if b, ok := m[name]; ok && b != nil {
		return b, nil
	}
	return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
}
