package sim

import (
	"math/rand"
	"slices"

	"github.com/pkg/errors"

	"qsurface/circuit"
)

// Result is one shot of a circuit execution.
type Result struct {
	// Cbits holds the final classical-bit assignment, indexed by the flat
	// classical index space of the circuit.
	Cbits []int
	// State is the statevector after the last gate.
	State *StateVector
}

// Run executes the circuit as a single shot with a seeded RNG. Gates run in
// step order; measurements collapse the state and record into Cbits;
// classically-conditioned gates read the bits recorded so far.
func Run(c *circuit.Circuit, seed int64) (*Result, error) {
	if c.NumQubits > 26 {
		return nil, errors.Errorf("circuit has %d qubits, dense simulation supports at most 26", c.NumQubits)
	}
	state := NewStateVector(max(c.NumQubits, 1))
	rng := rand.New(rand.NewSource(seed))
	bits := make([]int, c.NumCbits)

	gates := make([]circuit.Gate, len(c.Gates))
	copy(gates, c.Gates)
	slices.SortStableFunc(gates, func(a, b circuit.Gate) int {
		return a.Step - b.Step
	})

	for _, g := range gates {
		switch {
		case g.Type == "BARRIER":
			// Scheduling fence only.
		case g.Type == "MEASURE":
			if g.Cbit < 0 || g.Cbit >= len(bits) {
				return nil, errors.Errorf("measure of q[%d] into out-of-range bit %d", g.Target, g.Cbit)
			}
			bits[g.Cbit] = state.Measure(g.Target, rng)
		case g.IsReset:
			state.Reset(g.Target, rng)
		case g.ClassicalControl >= 0:
			if g.ClassicalControl >= len(bits) {
				return nil, errors.Errorf("condition on out-of-range bit %d", g.ClassicalControl)
			}
			if bits[g.ClassicalControl] == 1 {
				state.Apply(g.Type, g.Target, g.Control, g.Params, g.IsDagger)
			}
		default:
			state.Apply(g.Type, g.Target, g.Control, g.Params, g.IsDagger)
		}
	}

	return &Result{Cbits: bits, State: state}, nil
}
