package surface

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Axis selects which syndrome graph a lattice readout was measured along.
type Axis string

const (
	// AxisNone is accepted only for single-bit logical readouts.
	AxisNone Axis = ""
	AxisX    Axis = "X"
	AxisZ    Axis = "Z"
)

// Event is one syndrome-change hit in the decoder's coordinate system. Time
// counts stabilizer rounds; Row and Col are half-integer lattice coordinates,
// with the X and Z sublattices offset from each other by 0.5. The matching
// decoder correlates events across both graphs using this shared system.
type Event struct {
	Time float64 `json:"time"`
	Row  float64 `json:"row"`
	Col  float64 `json:"col"`
}

// ParseReadout turns a raw readout string into the logical readout value and
// the per-graph syndrome-change events.
//
// The wire format is space-delimited, most recent register first:
//
//	"<logical_or_full_bitstring> <syndrome_T> ... <syndrome_0>"
//
// Each syndrome chunk has fixed width num_syn_X+num_syn_Z with the X bits in
// the high-order positions. When the first chunk is longer than one bit it is
// a full-lattice readout of all data qubits; axis is then required to
// reconstruct the final stabilizer round (ErrInvalidAxis otherwise). Chunks
// with the wrong width or non-binary characters fail the parse; nothing is
// truncated or padded.
func (q *Qubit) ParseReadout(readout string, axis Axis) (int, map[Axis][]Event, error) {
	chunks := strings.Split(readout, " ")
	if len(chunks) == 0 || chunks[0] == "" {
		return 0, nil, errors.New("empty readout string")
	}

	var logical int
	if len(chunks[0]) > 1 {
		// Full-lattice readout: fold the data-qubit values into a final
		// stabilizer round before extracting changes.
		if len(chunks) < 2 {
			return 0, nil, errors.New("lattice readout requires at least one prior syndrome round")
		}
		lr, final, err := q.extractFinalStabilizer(chunks[0], chunks[1], axis)
		if err != nil {
			return 0, nil, err
		}
		logical = lr
		chunks = append([]string{final}, chunks[1:]...)
	} else {
		switch chunks[0] {
		case "0":
			logical = 0
		case "1":
			logical = 1
		default:
			return 0, nil, errors.Errorf("logical readout chunk %q is not a bit", chunks[0])
		}
		chunks = chunks[1:]
	}

	width := q.geo.NumSyn(MX) + q.geo.NumSyn(MZ)
	rounds := make([]*big.Int, 0, len(chunks))
	for i := len(chunks) - 1; i >= 0; i-- { // reverse to chronological order
		v, err := parseChunk(chunks[i], width)
		if err != nil {
			return 0, nil, err
		}
		rounds = append(rounds, v)
	}
	return logical, q.syndromeChanges(rounds), nil
}

// parseChunk converts one fixed-width binary chunk to an integer, bit 0 last.
func parseChunk(s string, width int) (*big.Int, error) {
	if len(s) != width {
		return nil, errors.Errorf("syndrome chunk %q has width %d, want %d", s, len(s), width)
	}
	if err := checkBits(s); err != nil {
		return nil, errors.Wrapf(err, "syndrome chunk %q", s)
	}
	if s == "" {
		return new(big.Int), nil
	}
	v, _ := new(big.Int).SetString(s, 2)
	return v, nil
}

func checkBits(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return errors.Errorf("non-binary character %q at position %d", s[i], i)
		}
	}
	return nil
}

// syndromeChanges XORs consecutive rounds and maps every flipped bit to a
// (time,row,col) event on its sublattice. Rounds must be chronological.
func (q *Qubit) syndromeChanges(rounds []*big.Int) map[Axis][]Event {
	numX, numZ := q.geo.NumSyn(MX), q.geo.NumSyn(MZ)
	_, dw := q.geo.Dims()
	perRowX := dw / 2
	perRowZ := dw/2 + 1

	events := map[Axis][]Event{AxisX: {}, AxisZ: {}}
	diff := new(big.Int)
	for t := 0; t+1 < len(rounds); t++ {
		diff.Xor(rounds[t], rounds[t+1])
		for loc := 0; loc < numX; loc++ {
			if diff.Bit(numZ+loc) == 1 {
				row := -0.5 + float64(loc/perRowX)
				col := 0.5 + float64((loc/perRowX)%2) + float64((loc%perRowX)*2)
				events[AxisX] = append(events[AxisX], Event{Time: float64(t), Row: row, Col: col})
			}
		}
		for loc := 0; loc < numZ; loc++ {
			if diff.Bit(loc) == 1 {
				row := 0.5 + float64(loc/perRowZ)
				col := 0.5 - float64((loc/perRowZ)%2) + float64((loc%perRowZ)*2)
				events[AxisZ] = append(events[AxisZ], Event{Time: float64(t), Row: row, Col: col})
			}
		}
	}
	return events
}

// extractFinalStabilizer recomputes the requested axis's plaquette parities
// from a full-lattice readout and splices them with the other axis's bits
// from the previous round, forming a complete final syndrome chunk. It also
// computes the logical readout: the leftmost column's parity for X, the
// topmost row's for Z.
func (q *Qubit) extractFinalStabilizer(lattice, prev string, axis Axis) (int, string, error) {
	numX, numZ := q.geo.NumSyn(MX), q.geo.NumSyn(MZ)
	numData := q.geo.NumData()
	_, dw := q.geo.Dims()

	if axis != AxisX && axis != AxisZ {
		return 0, "", errors.Wrapf(ErrInvalidAxis, "got %q", string(axis))
	}
	if len(lattice) != numData {
		return 0, "", errors.Errorf("lattice readout %q has width %d, want %d", lattice, len(lattice), numData)
	}
	if err := checkBits(lattice); err != nil {
		return 0, "", errors.Wrap(err, "lattice readout")
	}
	if len(prev) != numX+numZ {
		return 0, "", errors.Errorf("previous syndrome %q has width %d, want %d", prev, len(prev), numX+numZ)
	}
	if err := checkBits(prev); err != nil {
		return 0, "", errors.Wrap(err, "previous syndrome")
	}

	// Reverse the chunk to index-ascending data-qubit values.
	vals := make([]int, numData)
	for i := 0; i < numData; i++ {
		vals[numData-1-i] = int(lattice[i] - '0')
	}

	// Per-plaquette parity string for one sublattice, plaquette 0 in the
	// least significant (rightmost) position.
	parity := func(t StabilizerType) string {
		ps := q.geo.Plaquettes(t)
		buf := make([]byte, len(ps))
		for i, p := range ps {
			sum := 0
			for _, idx := range p.Corners() {
				if idx != Absent {
					sum += vals[idx]
				}
			}
			buf[len(ps)-1-i] = '0' + byte(sum%2)
		}
		return string(buf)
	}

	var logical int
	var stab string
	if axis == AxisX {
		stab = parity(MX) + prev[numX:]
		for i := 0; i < numData; i += dw {
			logical = (logical + vals[i]) % 2
		}
	} else {
		stab = prev[:numX] + parity(MZ)
		for i := 0; i < dw; i++ {
			logical = (logical + vals[i]) % 2
		}
	}
	return logical, stab, nil
}
