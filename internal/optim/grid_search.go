// Package optim searches dose grids for the stack with the best score. It
// consumes the core evaluator and never feeds back into it.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/stack"
)

type Objective string

const (
	ObjectiveNet   Objective = "net"
	ObjectiveRatio Objective = "ratio"
)

var ErrEmptyGrid = errors.New("empty search grid")

type Options struct {
	Profile       pkpd.UserProfile
	Goal          string
	Sensitivities pkpd.Sensitivities
	EvidenceBlend float64
	Objective     Objective
	// MaxRisk skips candidates whose weighted risk exceeds it; zero disables
	// the cap.
	MaxRisk float64
	Workers int
	Logger  *zap.Logger
}

type Candidate struct {
	Doses  map[string]float64 `json:"doses"`
	Stack  pkpd.Stack         `json:"stack"`
	Score  float64            `json:"score"`
	Result stack.Result       `json:"result"`
	vector []float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch searches the dose of each named compound over its range.
func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// DoseSteps returns steps evenly spaced doses from lo to hi inclusive.
func DoseSteps(lo, hi float64, steps int) []float64 {
	if steps < 2 || hi <= lo {
		return []float64{math.Max(lo, 0)}
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(steps-1)
	}
	return out
}

// Search evaluates every grid point concurrently and returns the best
// candidate. Ties go to the lexically smallest dose vector, so the result
// does not depend on scheduling. Returns nil when every point exceeds
// MaxRisk.
func (g *GridSearch) Search(ctx context.Context, ref *pkpd.Reference, base pkpd.Stack, opts Options) (*Candidate, int, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, fmt.Errorf("%w: no doses for %s", ErrEmptyGrid, g.paramNames[i])
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var points [][]float64
	g.searchRecursive(0, make([]float64, 0, len(g.paramNames)), &points)
	if len(points) == 0 {
		return nil, 0, ErrEmptyGrid
	}
	logger.Debug("grid search started",
		zap.Strings("params", g.paramNames),
		zap.Int("points", len(points)),
		zap.Int("workers", workers))

	candidates := make([]*Candidate, len(points))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range points {
		i, p := i, p
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = g.evaluate(ref, base, p, opts)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	var best *Candidate
	for _, c := range candidates {
		if opts.MaxRisk > 0 && c.Result.WeightedRisk > opts.MaxRisk {
			continue
		}
		if best == nil || c.Score > best.Score || (c.Score == best.Score && lessVector(c.vector, best.vector)) {
			best = c
		}
	}
	if best != nil {
		logger.Debug("grid search finished", zap.Float64("score", best.Score), zap.Any("doses", best.Doses))
	}
	return best, len(points), nil
}

func (g *GridSearch) searchRecursive(depth int, current []float64, out *[][]float64) {
	if depth == len(g.paramNames) {
		p := make([]float64, len(current))
		copy(p, current)
		*out = append(*out, p)
		return
	}
	for _, v := range g.ranges[depth] {
		g.searchRecursive(depth+1, append(current, v), out)
	}
}

func (g *GridSearch) evaluate(ref *pkpd.Reference, base pkpd.Stack, point []float64, opts Options) *Candidate {
	s := base.Clone()
	doses := make(map[string]float64, len(point))
	for i, name := range g.paramNames {
		doses[name] = point[i]
		found := false
		for j := range s {
			if s[j].Compound == name {
				s[j].Dose = point[i]
				found = true
			}
		}
		if !found {
			s = append(s, pkpd.StackEntry{Compound: name, Dose: point[i]})
		}
	}

	res := stack.Evaluate(ref, s, opts.Profile, opts.Goal, opts.Sensitivities, opts.EvidenceBlend)
	score := res.NetScore
	if opts.Objective == ObjectiveRatio {
		score = res.Ratio
	}
	return &Candidate{Doses: doses, Stack: s, Score: score, Result: res, vector: point}
}

func lessVector(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
