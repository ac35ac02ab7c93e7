package calc

import (
	"github.com/rmarsh/chessperf/internal/metrics"
)

// DefaultMeasure is the scale a win/loss contributes to reward when the
// caller does not override it; the full span between a win and a loss is
// 2*DefaultMeasure. Mirrors Population's measure=50 default.
const DefaultMeasure = 50.0

// DefaultDelta is the stability tolerance do_iterations_until_stable uses
// when the caller does not override it.
const DefaultDelta = 1e-12

// Run iterates every person in persons until all are simultaneously
// stable under delta, mirroring Population.do_iterations_until_stable.
// maxIterations bounds the run; 0 means unbounded. Returns the number of
// iterations performed and whether stability was reached before the cap.
func Run(persons map[int64]*Person, delta float64, maxIterations int) (iterations int, converged bool) {
	for {
		iterations++
		for _, p := range persons {
			p.SetPoints()
		}
		for _, p := range persons {
			for _, opponent := range p.Opponents {
				p.AddPoints(persons[opponent].Performance())
			}
		}
		for _, p := range persons {
			p.CalculatePerformance()
		}

		stable := true
		for _, p := range persons {
			if !p.IsStable(delta) {
				stable = false
				break
			}
		}
		if stable {
			metrics.CalculatorIterations.Observe(float64(iterations))
			return iterations, true
		}
		if maxIterations > 0 && iterations >= maxIterations {
			metrics.CalculatorIterations.Observe(float64(iterations))
			metrics.CalculatorNonConvergedRuns.Inc()
			return iterations, false
		}
	}
}

// HighPerformance returns the highest final performance value among
// persons, mirroring Population.set_high_performance.
func HighPerformance(persons map[int64]*Person) float64 {
	high := 0.0
	for _, p := range persons {
		if v := p.Performance(); v > high {
			high = v
		}
	}
	return high
}

// Normalized returns high minus p's performance, one of the affine
// rescalings spec.md's post-processing step allows; the choice does not
// affect player ordering.
func Normalized(high float64, p *Person) float64 {
	return high - p.Performance()
}
