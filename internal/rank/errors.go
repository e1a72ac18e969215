package rank

import "errors"

// ErrInvalidGraphShape is returned when link counts are not square or the
// out-degree vector does not match them.
var ErrInvalidGraphShape = errors.New("invalid graph shape")

// ErrInvalidParameter is returned for out-of-range damping factors, step
// counts, start nodes, or missing inputs. Values are never clamped.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrNumericalDrift is returned when a built row does not sum to 1 within
// Tolerance. It indicates a defect in matrix construction, not bad input.
var ErrNumericalDrift = errors.New("numerical drift")
