package sim

import (
	"math"
	"math/rand"
	"testing"

	"qsurface/circuit"
)

func TestRunDeterministicMeasurement(t *testing.T) {
	c := &circuit.Circuit{}
	c.AllocQubits("q", 1)
	c.AllocBits("c", 1)
	c.X(0)
	c.Measure(0, 0)

	for _, seed := range []int64{1, 2, 99} {
		res, err := Run(c, seed)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cbits[0] != 1 {
			t.Errorf("seed %d: measured %d after X, want 1", seed, res.Cbits[0])
		}
	}
}

func TestRunBellPairCorrelated(t *testing.T) {
	c := &circuit.Circuit{}
	c.AllocQubits("q", 2)
	c.AllocBits("c", 2)
	c.H(0)
	c.CX(0, 1)
	c.Measure(0, 0)
	c.Measure(1, 1)

	for seed := int64(1); seed <= 10; seed++ {
		res, err := Run(c, seed)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cbits[0] != res.Cbits[1] {
			t.Errorf("seed %d: Bell pair outcomes %v disagree", seed, res.Cbits)
		}
	}
}

func TestRunResetForcesZero(t *testing.T) {
	c := &circuit.Circuit{}
	c.AllocQubits("q", 1)
	c.AllocBits("c", 1)
	c.H(0)
	c.Reset(0)
	c.Measure(0, 0)

	for seed := int64(1); seed <= 5; seed++ {
		res, err := Run(c, seed)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cbits[0] != 0 {
			t.Errorf("seed %d: measured %d after reset, want 0", seed, res.Cbits[0])
		}
	}
}

func TestRunClassicalControl(t *testing.T) {
	c := &circuit.Circuit{}
	c.AllocQubits("q", 2)
	c.AllocBits("c", 2)
	c.X(0)
	c.Measure(0, 0)
	c.AddConditioned("X", 1, 0)
	c.Measure(1, 1)

	res, err := Run(c, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cbits[0] != 1 || res.Cbits[1] != 1 {
		t.Errorf("cbits=%v, want [1 1]", res.Cbits)
	}

	// With the condition bit at 0 the correction must not fire.
	c2 := &circuit.Circuit{}
	c2.AllocQubits("q", 2)
	c2.AllocBits("c", 2)
	c2.Measure(0, 0)
	c2.AddConditioned("X", 1, 0)
	c2.Measure(1, 1)

	res, err = Run(c2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cbits[0] != 0 || res.Cbits[1] != 0 {
		t.Errorf("cbits=%v, want [0 0]", res.Cbits)
	}
}

func TestRunRepeatedMeasurementIsStable(t *testing.T) {
	c := &circuit.Circuit{}
	c.AllocQubits("q", 1)
	c.AllocBits("c", 2)
	c.H(0)
	c.Measure(0, 0)
	c.Measure(0, 1)

	for seed := int64(1); seed <= 10; seed++ {
		res, err := Run(c, seed)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cbits[0] != res.Cbits[1] {
			t.Errorf("seed %d: repeated measurement changed: %v", seed, res.Cbits)
		}
	}
}

func TestRunRejectsOversizedCircuit(t *testing.T) {
	c := &circuit.Circuit{}
	c.AllocQubits("q", 30)
	if _, err := Run(c, 1); err == nil {
		t.Fatal("expected error for oversized circuit")
	}
}

func TestMeasureCollapsesState(t *testing.T) {
	s := NewStateVector(1)
	s.Apply("H", 0, -1, nil, false)
	rng := rand.New(rand.NewSource(3))
	outcome := s.Measure(0, rng)

	p := s.Prob1(0)
	if outcome == 1 && math.Abs(p-1) > 1e-12 {
		t.Errorf("collapsed to 1 but Prob1=%g", p)
	}
	if outcome == 0 && math.Abs(p) > 1e-12 {
		t.Errorf("collapsed to 0 but Prob1=%g", p)
	}
}

func TestProbabilitiesNormalized(t *testing.T) {
	s := NewStateVector(3)
	s.Apply("H", 0, -1, nil, false)
	s.Apply("CX", 1, 0, nil, false)
	s.Apply("T", 2, -1, nil, false)

	for q, p := range s.Probabilities() {
		if math.Abs(p.Prob0+p.Prob1-1) > 1e-12 {
			t.Errorf("qubit %d: P0+P1=%g, want 1", q, p.Prob0+p.Prob1)
		}
	}
}
