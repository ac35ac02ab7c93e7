package calc

import "testing"

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Triangle: A beats B, B beats C, C beats A, all with the same measure.
// By symmetry every player's final performance should be equal.
func TestRunTriangleConverges(t *testing.T) {
	a, b, c := NewPerson(1, "A"), NewPerson(2, "B"), NewPerson(3, "C")
	a.AddReward(2, 1, DefaultMeasure)
	b.AddReward(1, -1, DefaultMeasure)
	b.AddReward(3, 1, DefaultMeasure)
	c.AddReward(2, -1, DefaultMeasure)
	c.AddReward(1, 1, DefaultMeasure)
	a.AddReward(3, -1, DefaultMeasure)

	persons := map[int64]*Person{1: a, 2: b, 3: c}
	iterations, converged := Run(persons, DefaultDelta, 10000)
	if !converged {
		t.Fatalf("triangle did not converge after %d iterations", iterations)
	}

	want := a.Performance()
	for id, p := range persons {
		if abs(p.Performance()-want) > 1e-6 {
			t.Fatalf("player %d performance = %v, want %v (symmetric triangle)", id, p.Performance(), want)
		}
	}
}

// A beats B twice, C beats A once, and B beats C once: the B-C game closes
// the A-B-C triangle, so the population is convergent, and performances
// should order A > C > B.
func TestRunTwoWinsOneLossOrdersPerformances(t *testing.T) {
	a, b, c := NewPerson(1, "A"), NewPerson(2, "B"), NewPerson(3, "C")
	a.AddReward(2, 1, DefaultMeasure)
	b.AddReward(1, -1, DefaultMeasure)
	a.AddReward(2, 1, DefaultMeasure)
	b.AddReward(1, -1, DefaultMeasure)
	c.AddReward(1, 1, DefaultMeasure)
	a.AddReward(3, -1, DefaultMeasure)
	b.AddReward(3, 1, DefaultMeasure)
	c.AddReward(2, -1, DefaultMeasure)

	persons := map[int64]*Person{1: a, 2: b, 3: c}
	_, converged := Run(persons, DefaultDelta, 10000)
	if !converged {
		t.Fatalf("two-wins-one-loss population did not converge")
	}

	if !(a.Performance() > c.Performance() && c.Performance() > b.Performance()) {
		t.Fatalf("performances not ordered A>C>B: a=%v c=%v b=%v", a.Performance(), c.Performance(), b.Performance())
	}
}

func TestRunStopsAtIterationCapWithoutConverging(t *testing.T) {
	// A linear chain (A beats B, B beats C, C beats D) is a tree: it never
	// produces a 3-cycle, so repeated iteration keeps shifting every
	// player's performance and never settles within a tiny cap.
	a, b, c, d := NewPerson(1, "A"), NewPerson(2, "B"), NewPerson(3, "C"), NewPerson(4, "D")
	a.AddReward(2, 1, DefaultMeasure)
	b.AddReward(1, -1, DefaultMeasure)
	b.AddReward(3, 1, DefaultMeasure)
	c.AddReward(2, -1, DefaultMeasure)
	c.AddReward(4, 1, DefaultMeasure)
	d.AddReward(3, -1, DefaultMeasure)

	persons := map[int64]*Person{1: a, 2: b, 3: c, 4: d}
	_, converged := Run(persons, 1e-300, 3)
	if converged {
		t.Fatalf("expected non-convergence within 3 iterations at an unreachable delta")
	}
}

func TestHighPerformanceAndNormalized(t *testing.T) {
	a, b := NewPerson(1, "A"), NewPerson(2, "B")
	a.AddReward(2, 1, DefaultMeasure)
	b.AddReward(1, -1, DefaultMeasure)
	persons := map[int64]*Person{1: a, 2: b}
	Run(persons, DefaultDelta, 10000)

	high := HighPerformance(persons)
	if high != a.Performance() && high != b.Performance() {
		t.Fatalf("HighPerformance %v matches neither player's performance", high)
	}
	if got := Normalized(high, a); got < 0 {
		t.Fatalf("Normalized(high, a) = %v, want >= 0", got)
	}
}
