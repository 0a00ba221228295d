package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

// BuildFunc prepares a runner and its config for one grid point.
type BuildFunc func(params map[string]float64) (*sim.Runner, sim.RunConfig, error)

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
}

// GridSearch evaluates every combination of the parameter grids and keeps
// the lowest value of one metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs the grid in order. It returns the best point and every point
// visited; a build or run error stops the search.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (Point, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Point{}, nil, fmt.Errorf("grid: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Point{Value: math.Inf(1)}
	var all []Point
	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &all)
	if err != nil {
		return Point{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	metricName string,
	best *Point,
	all *[]Point,
) error {
	if depth == len(g.paramNames) {
		runner, cfg, err := build(current)
		if err != nil {
			return err
		}

		result, err := runner.Run(ctx, cfg)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("grid: metric %q not recorded", metricName)
		}
		p := Point{Params: current, Value: val}
		*all = append(*all, p)
		if val < best.Value {
			*best = p
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, all); err != nil {
			return err
		}
	}
	return nil
}
