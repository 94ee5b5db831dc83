// Package sim is a dense statevector simulator for circuits built with
// package circuit. It supports mid-circuit measurement with collapse,
// reset, and classically-conditioned gates, which is what stabilizer
// circuits need to run end to end.
package sim

import (
	"math"
	"math/cmplx"
	"math/rand"
)

type Complex = complex128

// StateVector holds 2^NumQubits amplitudes, basis states indexed with qubit
// q at bit position q.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0...0> on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Apply dispatches a unitary gate by name.
func (s *StateVector) Apply(gateType string, target, control int, params []float64, dagger bool) {
	theta := 0.0
	if len(params) > 0 {
		theta = params[0]
	}
	switch gateType {
	case "H":
		s.applyH(target)
	case "X":
		s.applyX(target)
	case "Y":
		s.applyY(target)
	case "Z":
		s.applyZ(target)
	case "S":
		s.applyS(target, dagger)
	case "T":
		s.applyT(target, dagger)
	case "RX":
		s.applyRX(target, theta)
	case "RY":
		s.applyRY(target, theta)
	case "RZ", "P", "U1":
		s.applyRZ(target, theta)
	case "CX":
		if control >= 0 {
			s.applyCX(control, target)
		}
	case "CZ":
		if control >= 0 {
			s.applyCZ(control, target)
		}
	case "SWAP":
		if control >= 0 {
			s.applySWAP(control, target)
		}
	}
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = 1i*s.Amplitudes[j], -1i*s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyS(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	factor := 1i
	if dagger {
		factor = -1i
	}
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyT(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	var factor Complex
	if dagger {
		factor = cmplx.Exp(complex(0, -math.Pi/4))
	} else {
		factor = cmplx.Exp(complex(0, math.Pi/4))
	}
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] + js*s.Amplitudes[j]
			newAmps[j] = js*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRY(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s_ := complex(math.Sin(theta/2), 0)
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] - s_*s.Amplitudes[j]
			newAmps[j] = s_*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRZ(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// Prob1 returns the probability of measuring |1> on qubit q.
func (s *StateVector) Prob1(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i, a := range s.Amplitudes {
		if i&bit != 0 {
			p += real(a * cmplx.Conj(a))
		}
	}
	return p
}

// Measure performs a projective Z-basis measurement of qubit q: it samples an
// outcome with rng, collapses the state onto it and renormalizes.
func (s *StateVector) Measure(q int, rng *rand.Rand) int {
	bit := 1 << q
	prob1 := s.Prob1(q)

	outcome := 0
	if rng.Float64() < prob1 {
		outcome = 1
	}

	var norm float64
	if outcome == 1 {
		norm = math.Sqrt(prob1)
	} else {
		norm = math.Sqrt(1 - prob1)
	}
	if norm == 0 {
		norm = 1
	}
	for i := range s.Amplitudes {
		if (i&bit != 0) != (outcome == 1) {
			s.Amplitudes[i] = 0
		} else {
			s.Amplitudes[i] /= complex(norm, 0)
		}
	}
	return outcome
}

// Reset forces qubit q to |0> by measure-then-flip. Sampling the measurement
// keeps the statistics honest when the qubit is still entangled with the rest
// of the lattice.
func (s *StateVector) Reset(q int, rng *rand.Rand) {
	if s.Measure(q, rng) == 1 {
		s.applyX(q)
	}
}

// QubitProbability is the marginal outcome distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// Probabilities returns the marginal distribution of every qubit.
func (s *StateVector) Probabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, a := range s.Amplitudes {
		p := real(a * cmplx.Conj(a))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}
