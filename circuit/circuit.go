// Package circuit provides a concrete quantum-circuit builder: a flat-indexed
// gate list with named register allocation, QASM 2.0 import/export, and a
// dependency-aware step compactor. It is the capability the surface-code
// layer emits into and the simulator executes.
package circuit

// Gate represents a quantum operation placed on the circuit timeline.
type Gate struct {
	Type             string
	Target           int
	Control          int       // -1 if not a controlled gate
	Cbit             int       // classical bit written by MEASURE, -1 otherwise
	Step             int       // position in circuit timeline
	Params           []float64 // parameters for rotation gates
	IsDagger         bool      // adjoint variant (sdg, tdg)
	IsReset          bool      // reset-to-|0> operation
	ClassicalControl int       // -1 if not classically conditioned, else classical bit index
}

// Register names a contiguous range of qubit or classical-bit indices.
type Register struct {
	Name string
	Base int
	Size int
}

// Circuit holds the circuit state. The zero value is an empty circuit;
// registers grow the index spaces as they are allocated. Appending is
// strictly sequential: each gate lands on its own step, and Compact can
// later re-pack commuting gates onto shared steps.
type Circuit struct {
	NumQubits int
	NumCbits  int
	Gates     []Gate
	MaxSteps  int
	QRegs     []Register
	CRegs     []Register
}

// AllocQubits reserves n fresh qubit indices under a register name and
// returns the base index.
func (c *Circuit) AllocQubits(name string, n int) int {
	base := c.NumQubits
	c.NumQubits += n
	c.QRegs = append(c.QRegs, Register{Name: name, Base: base, Size: n})
	return base
}

// AllocBits reserves n fresh classical-bit indices under a register name and
// returns the base index.
func (c *Circuit) AllocBits(name string, n int) int {
	base := c.NumCbits
	c.NumCbits += n
	c.CRegs = append(c.CRegs, Register{Name: name, Base: base, Size: n})
	return base
}

func (c *Circuit) append(g Gate) {
	g.Step = c.MaxSteps
	c.Gates = append(c.Gates, g)
	c.MaxSteps++
}

// Add appends a gate of the given type. An optional single control qubit may
// be supplied for two-qubit gates.
func (c *Circuit) Add(gateType string, target int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.append(Gate{Type: gateType, Target: target, Control: ctrl, Cbit: -1, ClassicalControl: -1})
}

// AddParameterized appends a parameterized gate (RX, RY, RZ, P, ...).
func (c *Circuit) AddParameterized(gateType string, target int, params []float64, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.append(Gate{Type: gateType, Target: target, Control: ctrl, Cbit: -1, Params: params, ClassicalControl: -1})
}

// AddDagger appends the adjoint of a gate (e.g. SDG).
func (c *Circuit) AddDagger(gateType string, target int) {
	c.append(Gate{Type: gateType, Target: target, Control: -1, Cbit: -1, IsDagger: true, ClassicalControl: -1})
}

// AddConditioned appends a gate executed only when the given classical bit
// reads 1.
func (c *Circuit) AddConditioned(gateType string, target, cbit int) {
	c.append(Gate{Type: gateType, Target: target, Control: -1, Cbit: -1, ClassicalControl: cbit})
}

// H appends a Hadamard gate.
func (c *Circuit) H(q int) { c.Add("H", q) }

// X appends a Pauli-X gate.
func (c *Circuit) X(q int) { c.Add("X", q) }

// Z appends a Pauli-Z gate.
func (c *Circuit) Z(q int) { c.Add("Z", q) }

// CX appends a controlled-X gate.
func (c *Circuit) CX(control, target int) { c.Add("CX", target, control) }

// CZ appends a controlled-Z gate.
func (c *Circuit) CZ(control, target int) { c.Add("CZ", target, control) }

// Measure appends a measurement of qubit q into classical bit cb.
func (c *Circuit) Measure(q, cb int) {
	c.append(Gate{Type: "MEASURE", Target: q, Control: -1, Cbit: cb, ClassicalControl: -1})
}

// Reset appends a reset of qubit q to |0>.
func (c *Circuit) Reset(q int) {
	c.append(Gate{Type: "RESET", Target: q, Control: -1, Cbit: -1, IsReset: true, ClassicalControl: -1})
}

// Barrier appends a barrier spanning all qubits. Nothing may be reordered
// across it.
func (c *Circuit) Barrier() {
	c.append(Gate{Type: "BARRIER", Target: -1, Control: -1, Cbit: -1, ClassicalControl: -1})
}

// GatesAtStep returns the gates scheduled at the given step.
func (c *Circuit) GatesAtStep(step int) []Gate {
	var out []Gate
	for _, g := range c.Gates {
		if g.Step == step {
			out = append(out, g)
		}
	}
	return out
}

// Depth returns the number of occupied steps.
func (c *Circuit) Depth() int {
	depth := 0
	for _, g := range c.Gates {
		if g.Step >= depth {
			depth = g.Step + 1
		}
	}
	return depth
}
