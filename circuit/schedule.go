package circuit

import "slices"

// Compact re-packs the timeline so gates with no dependency between them
// share a step. A gate depends on the previous gate touching any of its
// qubits, on the previous writer/reader of any classical bit it uses, and on
// the last barrier. Barriers are fences: they take a step of their own after
// everything before them, and nothing scheduled later may move across.
//
// Appending gives every gate its own step, which keeps emission order
// trivially correct; Compact recovers the parallelism before export or
// execution, without ever reordering dependent operations.
func (c *Circuit) Compact() {
	sorted := make([]*Gate, len(c.Gates))
	for i := range c.Gates {
		sorted[i] = &c.Gates[i]
	}
	slices.SortStableFunc(sorted, func(a, b *Gate) int {
		return a.Step - b.Step
	})

	// Earliest free step per qubit and per classical bit.
	qubitFree := make([]int, c.NumQubits)
	cbitFree := make([]int, c.NumCbits)
	fence := 0
	maxStep := -1

	for _, g := range sorted {
		if g.Type == "BARRIER" {
			step := fence
			for _, s := range qubitFree {
				step = max(step, s)
			}
			for _, s := range cbitFree {
				step = max(step, s)
			}
			g.Step = step
			fence = step + 1
			maxStep = max(maxStep, step)
			continue
		}

		step := fence
		for _, q := range g.qubits() {
			step = max(step, qubitFree[q])
		}
		for _, cb := range g.cbits() {
			step = max(step, cbitFree[cb])
		}
		g.Step = step
		for _, q := range g.qubits() {
			qubitFree[q] = step + 1
		}
		for _, cb := range g.cbits() {
			cbitFree[cb] = step + 1
		}
		maxStep = max(maxStep, step)
	}
	c.MaxSteps = maxStep + 1
}

// qubits returns the qubit indices the gate touches.
func (g *Gate) qubits() []int {
	if g.Control >= 0 {
		return []int{g.Target, g.Control}
	}
	return []int{g.Target}
}

// cbits returns the classical-bit indices the gate reads or writes.
func (g *Gate) cbits() []int {
	var out []int
	if g.Cbit >= 0 {
		out = append(out, g.Cbit)
	}
	if g.ClassicalControl >= 0 {
		out = append(out, g.ClassicalControl)
	}
	return out
}
