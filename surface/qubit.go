package surface

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Builder is the circuit-building capability the lattice emits into. Qubit
// and classical-bit indices are flat; allocation returns the base index of a
// fresh contiguous range. The core never inspects the execution semantics of
// these calls, it only sequences them. The concrete implementation lives in
// package circuit.
type Builder interface {
	AllocQubits(name string, n int) int
	AllocBits(name string, n int) int
	H(q int)
	X(q int)
	Z(q int)
	CX(control, target int)
	Measure(q, c int)
	Reset(q int)
	Barrier()
}

// entangler emits the entangling sequence for one plaquette. The data slice
// holds absolute qubit indices with absent corners already filtered out.
type entangler interface {
	Entangle(b Builder, syn int, data []int)
}

// zxEntangler measures X-type plaquettes: the syndrome qubit is rotated into
// the |+> basis and fans CNOTs out onto its data qubits.
type zxEntangler struct{}

func (zxEntangler) Entangle(b Builder, syn int, data []int) {
	b.H(syn)
	for _, q := range data {
		b.CX(syn, q)
	}
	b.H(syn)
}

// xzEntangler measures Z-type plaquettes: data qubits fan CNOTs into the
// syndrome qubit.
type xzEntangler struct{}

func (xzEntangler) Entangle(b Builder, syn int, data []int) {
	for _, q := range data {
		b.CX(q, syn)
	}
}

// entanglers maps a code-type tag to its per-sublattice entangling sequences.
var entanglers = map[string]map[StabilizerType]entangler{
	CodeXXZZ: {MX: zxEntangler{}, MZ: xzEntangler{}},
}

// creg records one classical register owned by a Qubit, in allocation order.
type creg struct {
	name string
	base int
	size int
}

// Qubit is a single logical surface-code qubit: a lattice of data qubits plus
// the mutable round state that sequences stabilizer measurements. The round
// counter and register table are per-instance; calls that advance a round
// must be strictly ordered, never concurrent, within one Qubit's lifetime.
// Distinct Qubits are independent and may share a Builder.
type Qubit struct {
	name string
	geo  Geometry
	b    Builder
	ent  map[StabilizerType]entangler

	data    int // base qubit index of the data register
	mz, mx  int // base qubit indices of the syndrome registers
	ancilla int

	t     int // stabilizer round counter, -1 until the first round
	cregs []creg
}

// NewQubit allocates the quantum registers for one logical qubit of the given
// code type and odd dimensions on the builder. The name prefixes all register
// names, which keeps multiple logical qubits on one builder apart.
func NewQubit(code, name string, dh, dw int, b Builder) (*Qubit, error) {
	geo, err := NewGeometry(code, dh, dw)
	if err != nil {
		return nil, err
	}
	q := &Qubit{
		name: name,
		geo:  geo,
		b:    b,
		ent:  entanglers[code],
		t:    -1,
	}
	q.data = b.AllocQubits(name+"_data", geo.NumData())
	if n := geo.NumSyn(MZ); n > 0 {
		q.mz = b.AllocQubits(name+"_mz", n)
	}
	if n := geo.NumSyn(MX); n > 0 {
		q.mx = b.AllocQubits(name+"_mx", n)
	}
	q.ancilla = b.AllocQubits(name+"_ancilla", 1)
	return q, nil
}

// Geometry exposes the immutable lattice layout.
func (q *Qubit) Geometry() Geometry { return q.geo }

// Round returns the index of the last completed stabilizer round, or -1.
func (q *Qubit) Round() int { return q.t }

// dataIdx resolves plaquette corners to absolute qubit indices, dropping
// absent corners.
func (q *Qubit) dataIdx(c [4]int) []int {
	out := make([]int, 0, 4)
	for _, idx := range c {
		if idx != Absent {
			out = append(out, q.data+idx)
		}
	}
	return out
}

func (q *Qubit) entangle(t StabilizerType, base int) {
	ent := q.ent[t]
	for _, p := range q.geo.Plaquettes(t) {
		ent.Entangle(q.b, base+p.Syn, q.dataIdx(p.Corners()))
	}
}

// EntangleX emits the entangling sequence for every X plaquette.
func (q *Qubit) EntangleX() { q.entangle(MX, q.mx) }

// EntangleZ emits the entangling sequence for every Z plaquette.
func (q *Qubit) EntangleZ() { q.entangle(MZ, q.mz) }

// Entangle emits the sequences for both plaquette types, X first.
func (q *Qubit) Entangle() {
	q.EntangleX()
	q.EntangleZ()
}

// Stabilize runs one full stabilizer round: advance the round counter,
// allocate a fresh classical register, entangle every plaquette, measure Z
// syndromes into the low bits and X syndromes into the high bits, reset the
// syndrome qubits for reuse, and fence the round with a barrier.
func (q *Qubit) Stabilize() {
	numX, numZ := q.geo.NumSyn(MX), q.geo.NumSyn(MZ)
	q.t++
	base := q.allocBits(fmt.Sprintf("c%d", q.t), numX+numZ)

	q.Entangle()

	for i := 0; i < numZ; i++ {
		q.b.Measure(q.mz+i, base+i)
	}
	for i := 0; i < numX; i++ {
		q.b.Measure(q.mx+i, base+numZ+i)
	}
	for i := 0; i < numZ; i++ {
		q.b.Reset(q.mz + i)
	}
	for i := 0; i < numX; i++ {
		q.b.Reset(q.mx + i)
	}
	q.b.Barrier()
}

func (q *Qubit) allocBits(kind string, n int) int {
	name := q.name + "_" + kind
	base := q.b.AllocBits(name, n)
	q.cregs = append(q.cregs, creg{name: name, base: base, size: n})
	return base
}

// ResetZ initializes the lattice to the logical |0> state.
func (q *Qubit) ResetZ() {
	for i := 0; i < q.geo.NumData(); i++ {
		q.b.Reset(q.data + i)
	}
	q.b.Barrier()
}

// ResetX initializes the lattice to the logical |+> state.
func (q *Qubit) ResetX() {
	for i := 0; i < q.geo.NumData(); i++ {
		q.b.Reset(q.data + i)
		q.b.H(q.data + i)
	}
	q.b.Barrier()
}

// LogicalX applies the logical X operator along the leftmost column.
func (q *Qubit) LogicalX() {
	_, dw := q.geo.Dims()
	for i := 0; i < q.geo.NumData(); i += dw {
		q.b.X(q.data + i)
	}
	q.b.Barrier()
}

// LogicalZ applies the logical Z operator along the topmost row.
func (q *Qubit) LogicalZ() {
	_, dw := q.geo.Dims()
	for i := 0; i < dw; i++ {
		q.b.Z(q.data + i)
	}
	q.b.Barrier()
}

// ReadoutZ measures the logical Z projection into a fresh 1-bit register by
// accumulating the topmost row's parity on the ancilla.
func (q *Qubit) ReadoutZ() {
	base := q.allocBits("readout", 1)
	_, dw := q.geo.Dims()
	q.b.Reset(q.ancilla)
	for i := 0; i < dw; i++ {
		q.b.CX(q.data+i, q.ancilla)
	}
	q.b.Measure(q.ancilla, base)
	q.b.Barrier()
}

// ReadoutX measures the logical X projection into a fresh 1-bit register via
// the ancilla in the |+> basis, controlled onto the leftmost column.
func (q *Qubit) ReadoutX() {
	base := q.allocBits("readout", 1)
	_, dw := q.geo.Dims()
	q.b.Reset(q.ancilla)
	q.b.H(q.ancilla)
	for i := 0; i < q.geo.NumData(); i += dw {
		q.b.CX(q.ancilla, q.data+i)
	}
	q.b.H(q.ancilla)
	q.b.Measure(q.ancilla, base)
	q.b.Barrier()
}

// LatticeReadoutZ measures every data qubit in the Z basis into a fresh
// register. The result carries both a final round of stabilizer values and
// the logical Z readout; see ParseReadout.
func (q *Qubit) LatticeReadoutZ() {
	n := q.geo.NumData()
	base := q.allocBits("lattice_readout", n)
	for i := 0; i < n; i++ {
		q.b.Measure(q.data+i, base+i)
	}
	q.b.Barrier()
}

// LatticeReadoutX measures every data qubit in the X basis (transversal H,
// then measure) into a fresh register.
func (q *Qubit) LatticeReadoutX() {
	n := q.geo.NumData()
	base := q.allocBits("lattice_readout", n)
	for i := 0; i < n; i++ {
		q.b.H(q.data + i)
	}
	for i := 0; i < n; i++ {
		q.b.Measure(q.data+i, base+i)
	}
	q.b.Barrier()
}

// FormatReadout assembles the wire-format readout string from a flat
// classical-bit assignment: the qubit's registers most-recent-first,
// separated by single spaces, bits within each register most-significant
// first. This is the inverse of ParseReadout's chunking.
func (q *Qubit) FormatReadout(bits []int) (string, error) {
	chunks := make([]string, 0, len(q.cregs))
	for i := len(q.cregs) - 1; i >= 0; i-- {
		r := q.cregs[i]
		if r.base+r.size > len(bits) {
			return "", errors.Errorf("register %s needs bits [%d,%d), have %d", r.name, r.base, r.base+r.size, len(bits))
		}
		var sb strings.Builder
		for j := r.size - 1; j >= 0; j-- {
			sb.WriteByte('0' + byte(bits[r.base+j]&1))
		}
		chunks = append(chunks, sb.String())
	}
	return strings.Join(chunks, " "), nil
}
