package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/dynamo"
)

// Params names the config fields a grid search can vary.
var Params = map[string]func(*config.Config, float64){
	"temperature":          func(c *config.Config, v float64) { c.Environment.Temperature = v },
	"gravity":              func(c *config.Config, v float64) { c.Environment.Gravity = v },
	"heating":              func(c *config.Config, v float64) { c.Environment.HeatingCooling = v },
	"container_height":     func(c *config.Config, v float64) { c.Environment.ContainerHeight = v },
	"interaction_strength": func(c *config.Config, v float64) { c.Environment.InteractionStrength = v },
}

func ListParams() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate runs cfg and returns the value of the searched metric.
type Evaluate func(ctx context.Context, cfg *config.Config) (float64, error)

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d params but %d ranges", dynamo.ErrInvalidConfig, len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Params[name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s", name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", dynamo.ErrInvalidConfig, name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search evaluates every grid point over a copy of base and returns the
// parameters with the lowest value. Points whose evaluation fails are kept
// in trials but never chosen.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, eval Evaluate) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, eval, func(t Trial) {
		trials = append(trials, t)
		if t.Err == nil && t.Value < best {
			best = t.Value
			bestParams = t.Params
		}
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, fmt.Errorf("no grid point evaluated successfully")
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	eval Evaluate,
	record func(Trial),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			Params[name](&cfg, v)
		}
		val, err := eval(ctx, &cfg)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		record(Trial{Params: current, Value: val, Err: err})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, eval, record); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
