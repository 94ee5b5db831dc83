package surface

import "github.com/pkg/errors"

// StabilizerType names one of the two CSS plaquette sublattices.
type StabilizerType string

const (
	// MX are the X-type plaquettes.
	MX StabilizerType = "mx"
	// MZ are the Z-type plaquettes.
	MZ StabilizerType = "mz"
)

// Absent marks a plaquette corner cut off by the lattice boundary.
const Absent = -1

// Plaquette groups one syndrome qubit with up to four data qubits. The corner
// fields hold data-qubit indices in the flat row-major index space, or Absent
// where the boundary truncates the plaquette.
type Plaquette struct {
	Syn  int
	TopL int
	TopR int
	BotL int
	BotR int
}

// Corners returns the data-qubit indices in entangling order
// (top_l, top_r, bot_l, bot_r). Entries may be Absent.
func (p Plaquette) Corners() [4]int {
	return [4]int{p.TopL, p.TopR, p.BotL, p.BotR}
}

// Weight returns the number of data qubits the plaquette actually touches.
func (p Plaquette) Weight() int {
	w := 0
	for _, idx := range p.Corners() {
		if idx != Absent {
			w++
		}
	}
	return w
}

// Geometry is the lattice layout shared by circuit assembly and readout
// parsing. Both consumers rely on the same plaquette ordering and index
// semantics, so implementations are built once per configuration and never
// mutated.
type Geometry interface {
	// Dims returns the lattice height and width in data qubits.
	Dims() (dh, dw int)
	// NumData returns dh*dw, the number of data qubits.
	NumData() int
	// NumSyn returns the syndrome-qubit count for one plaquette type.
	NumSyn(t StabilizerType) int
	// Plaquettes returns the ordered plaquette list for one type.
	Plaquettes(t StabilizerType) []Plaquette
}

// geometries maps a code-type tag to its layout constructor. Variants share
// the dimension/index data model and differ only in how plaquettes are
// generated.
var geometries = map[string]func(dh, dw int) Geometry{
	CodeXXZZ: newRotatedGeometry,
}

// CodeXXZZ tags the rotated CSS surface code layout.
const CodeXXZZ = "XXZZ"

// NewGeometry builds the lattice layout for the given code type and odd
// dimensions. Even dimensions fail with ErrLattice.
func NewGeometry(code string, dh, dw int) (Geometry, error) {
	gen, ok := geometries[code]
	if !ok {
		return nil, errors.Errorf("unknown code type %q", code)
	}
	if dh < 1 || dw < 1 || dh%2 != 1 || dw%2 != 1 {
		return nil, errors.Wrapf(ErrLattice, "d=(%d,%d)", dh, dw)
	}
	return gen(dh, dw), nil
}

// rotatedGeometry lays data qubits row-major on a dh x dw grid with syndrome
// qubits on the diagonal checkerboard of the rotated layout. X plaquettes are
// scanned over dh+1 conceptual rows (including the degenerate top and bottom
// boundary rows); Z plaquettes over the complementary sublattice.
type rotatedGeometry struct {
	dh, dw int
	mx, mz []Plaquette
}

func newRotatedGeometry(dh, dw int) Geometry {
	g := &rotatedGeometry{dh: dh, dw: dw}
	g.build()
	return g
}

func (g *rotatedGeometry) build() {
	numX := ((g.dh + 1) / 2) * (g.dw - 1)
	numZ := ((g.dw + 1) / 2) * (g.dh - 1)
	perRowX := (g.dw - 1) / 2
	perRowZ := (g.dw + 1) / 2

	g.mx = make([]Plaquette, 0, numX)
	for syn := 0; syn < numX; syn++ {
		row := syn / perRowX
		offset := syn % perRowX
		start := (row - 1) * g.dw
		parity := row % 2

		p := Plaquette{Syn: syn, TopL: Absent, TopR: Absent, BotL: Absent, BotR: Absent}
		switch {
		case row == 0:
			// Top boundary row: bottom pair only.
			p.BotL = syn * 2
			p.BotR = syn*2 + 1
		case row == g.dh:
			// Bottom boundary row: top pair only.
			p.TopL = start + offset*2 + 1
			p.TopR = start + offset*2 + 2
		default:
			// Interior rows shift by a half column on odd rows, giving the
			// brick-wall offset of the rotated layout.
			p.TopL = start + offset*2 + parity
			p.TopR = start + offset*2 + parity + 1
			p.BotL = start + g.dw + offset*2 + parity
			p.BotR = start + g.dw + offset*2 + parity + 1
		}
		g.mx = append(g.mx, p)
	}

	g.mz = make([]Plaquette, 0, numZ)
	for syn := 0; syn < numZ; syn++ {
		row := syn / perRowZ
		offset := syn % perRowZ
		start := row * g.dw
		parity := row % 2

		p := Plaquette{
			Syn:  syn,
			TopL: start + offset*2 - parity,
			TopR: start + offset*2 - parity + 1,
			BotL: start + g.dw + offset*2 - parity,
			BotR: start + g.dw + offset*2 - parity + 1,
		}
		// Side boundaries drop the outer pair.
		if parity == 0 && offset == perRowZ-1 {
			p.TopR, p.BotR = Absent, Absent
		} else if parity == 1 && offset == 0 {
			p.TopL, p.BotL = Absent, Absent
		}
		g.mz = append(g.mz, p)
	}
}

func (g *rotatedGeometry) Dims() (int, int) { return g.dh, g.dw }

func (g *rotatedGeometry) NumData() int { return g.dh * g.dw }

func (g *rotatedGeometry) NumSyn(t StabilizerType) int {
	return len(g.Plaquettes(t))
}

func (g *rotatedGeometry) Plaquettes(t StabilizerType) []Plaquette {
	if t == MX {
		return g.mx
	}
	return g.mz
}
