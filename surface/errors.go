package surface

import "github.com/pkg/errors"

var (
	// ErrLattice reports an invalid lattice configuration. Surface code
	// distances must be odd in every dimension, otherwise the logical
	// operators are not well-defined.
	ErrLattice = errors.New("surface code distance must be odd in all dimensions")

	// ErrInvalidAxis reports a full-lattice readout parsed without a usable
	// measurement axis. The axis is required in that path: the parser cannot
	// tell an X-basis readout from a Z-basis one by inspection.
	ErrInvalidAxis = errors.New("lattice readout requires axis X or Z")
)
