package calc

import "testing"

func TestAddRewardAccumulatesRewardGameCountAndScore(t *testing.T) {
	p := NewPerson(1, "Alice")
	p.AddReward(2, 1, 50)  // win
	p.AddReward(3, 0, 50)  // draw
	p.AddReward(4, -1, 50) // loss

	if p.GameCount() != 3 {
		t.Fatalf("GameCount = %d, want 3", p.GameCount())
	}
	if got, want := p.Score(), 1.5; got != want {
		t.Fatalf("Score = %v, want %v", got, want)
	}
	if got, want := len(p.Opponents), 3; got != want {
		t.Fatalf("len(Opponents) = %d, want %d", got, want)
	}
}

func TestCalculatePerformanceKeepsOnlyLastThreeIterations(t *testing.T) {
	p := NewPerson(1, "Alice")
	p.AddReward(2, 1, 50)

	for i := 0; i < 5; i++ {
		p.AddPoints(float64(i))
		p.CalculatePerformance()
	}

	if got, want := len(p.iteration), 3; got != want {
		t.Fatalf("len(iteration) = %d, want %d", got, want)
	}
}

func TestIsStableVacuouslyTrueWithFewerThanTwoSamples(t *testing.T) {
	p := NewPerson(1, "Alice")
	if !p.IsStable(1e-12) {
		t.Fatalf("IsStable with one sample should be true")
	}
}

func TestIsStableDetectsDivergence(t *testing.T) {
	p := NewPerson(1, "Alice")
	p.iteration = []float64{10, 0, 0}
	if p.IsStable(1e-12) {
		t.Fatalf("IsStable should be false when samples diverge")
	}
}

func TestIsStableTrueWhenSamplesConverged(t *testing.T) {
	p := NewPerson(1, "Alice")
	p.iteration = []float64{5, 5, 5}
	if !p.IsStable(1e-12) {
		t.Fatalf("IsStable should be true when samples match")
	}
}
