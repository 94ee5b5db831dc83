package surface

import (
	"testing"

	"github.com/pkg/errors"
)

func TestGeometryCounts(t *testing.T) {
	tests := []struct {
		dh, dw  int
		numData int
		numX    int
		numZ    int
	}{
		{3, 3, 9, 4, 4},
		{5, 5, 25, 12, 12},
		{7, 7, 49, 24, 24},
		{3, 5, 15, 8, 6},
		{5, 3, 15, 6, 8},
	}
	for _, tt := range tests {
		geo, err := NewGeometry(CodeXXZZ, tt.dh, tt.dw)
		if err != nil {
			t.Fatalf("NewGeometry(%d,%d): %v", tt.dh, tt.dw, err)
		}
		if geo.NumData() != tt.numData {
			t.Errorf("d=(%d,%d): NumData=%d, want %d", tt.dh, tt.dw, geo.NumData(), tt.numData)
		}
		if got := geo.NumSyn(MX); got != tt.numX {
			t.Errorf("d=(%d,%d): NumSyn(MX)=%d, want %d", tt.dh, tt.dw, got, tt.numX)
		}
		if got := geo.NumSyn(MZ); got != tt.numZ {
			t.Errorf("d=(%d,%d): NumSyn(MZ)=%d, want %d", tt.dh, tt.dw, got, tt.numZ)
		}
	}
}

func TestGeometryRejectsEvenDimensions(t *testing.T) {
	for _, d := range [][2]int{{4, 3}, {3, 4}, {2, 2}, {4, 4}, {0, 3}, {-1, 3}} {
		_, err := NewGeometry(CodeXXZZ, d[0], d[1])
		if !errors.Is(err, ErrLattice) {
			t.Errorf("d=(%d,%d): err=%v, want ErrLattice", d[0], d[1], err)
		}
	}
	for _, d := range [][2]int{{3, 3}, {3, 5}, {7, 7}, {1, 1}} {
		if _, err := NewGeometry(CodeXXZZ, d[0], d[1]); err != nil {
			t.Errorf("d=(%d,%d): unexpected err %v", d[0], d[1], err)
		}
	}
}

func TestGeometryUnknownCode(t *testing.T) {
	if _, err := NewGeometry("XYXY", 3, 3); err == nil {
		t.Fatal("expected error for unknown code type")
	}
}

func TestGeometryIndexBounds(t *testing.T) {
	for _, d := range [][2]int{{3, 3}, {5, 5}, {3, 5}, {5, 3}, {7, 7}, {9, 5}} {
		geo, err := NewGeometry(CodeXXZZ, d[0], d[1])
		if err != nil {
			t.Fatal(err)
		}
		for _, typ := range []StabilizerType{MX, MZ} {
			for i, p := range geo.Plaquettes(typ) {
				if p.Syn != i {
					t.Errorf("d=%v %s[%d]: Syn=%d, want %d", d, typ, i, p.Syn, i)
				}
				for _, idx := range p.Corners() {
					if idx == Absent {
						continue
					}
					if idx < 0 || idx >= geo.NumData() {
						t.Errorf("d=%v %s[%d]: data index %d out of [0,%d)", d, typ, i, idx, geo.NumData())
					}
				}
			}
		}
	}
}

// First and last conceptual rows of X plaquettes sit on the boundary and
// touch exactly 2 data qubits; interior rows touch 4.
func TestGeometryBoundaryTruncation(t *testing.T) {
	for _, d := range [][2]int{{3, 3}, {5, 5}, {3, 5}, {7, 7}} {
		geo, err := NewGeometry(CodeXXZZ, d[0], d[1])
		if err != nil {
			t.Fatal(err)
		}
		dh, dw := geo.Dims()
		perRowX := (dw - 1) / 2
		for i, p := range geo.Plaquettes(MX) {
			row := i / perRowX
			want := 4
			if row == 0 || row == dh {
				want = 2
			}
			if p.Weight() != want {
				t.Errorf("d=%v mx[%d] (row %d): weight=%d, want %d", d, i, row, p.Weight(), want)
			}
		}
	}
}

// Golden layout for the d=3 lattice, worked out by hand on the 3x3 grid.
func TestGeometryGoldenD3(t *testing.T) {
	geo, err := NewGeometry(CodeXXZZ, 3, 3)
	if err != nil {
		t.Fatal(err)
	}

	wantMX := []Plaquette{
		{Syn: 0, TopL: Absent, TopR: Absent, BotL: 0, BotR: 1},
		{Syn: 1, TopL: 1, TopR: 2, BotL: 4, BotR: 5},
		{Syn: 2, TopL: 3, TopR: 4, BotL: 6, BotR: 7},
		{Syn: 3, TopL: 7, TopR: 8, BotL: Absent, BotR: Absent},
	}
	wantMZ := []Plaquette{
		{Syn: 0, TopL: 0, TopR: 1, BotL: 3, BotR: 4},
		{Syn: 1, TopL: 2, TopR: Absent, BotL: 5, BotR: Absent},
		{Syn: 2, TopL: Absent, TopR: 3, BotL: Absent, BotR: 6},
		{Syn: 3, TopL: 4, TopR: 5, BotL: 7, BotR: 8},
	}

	gotMX := geo.Plaquettes(MX)
	gotMZ := geo.Plaquettes(MZ)
	for i, want := range wantMX {
		if gotMX[i] != want {
			t.Errorf("mx[%d] = %+v, want %+v", i, gotMX[i], want)
		}
	}
	for i, want := range wantMZ {
		if gotMZ[i] != want {
			t.Errorf("mz[%d] = %+v, want %+v", i, gotMZ[i], want)
		}
	}
}

// Every lattice edge between a data qubit and its grid neighbor is covered by
// at least one plaquette of some type, so the union of plaquettes forms the
// grid adjacency the decoder graphs assume.
func TestGeometryCoversAllDataQubits(t *testing.T) {
	for _, d := range [][2]int{{3, 3}, {5, 5}, {3, 5}} {
		geo, err := NewGeometry(CodeXXZZ, d[0], d[1])
		if err != nil {
			t.Fatal(err)
		}
		seen := make([]bool, geo.NumData())
		for _, typ := range []StabilizerType{MX, MZ} {
			for _, p := range geo.Plaquettes(typ) {
				for _, idx := range p.Corners() {
					if idx != Absent {
						seen[idx] = true
					}
				}
			}
		}
		for i, s := range seen {
			if !s {
				t.Errorf("d=%v: data qubit %d not referenced by any plaquette", d, i)
			}
		}
	}
}
