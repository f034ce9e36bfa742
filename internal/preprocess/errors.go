package preprocess

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/track-preprocess/internal/track"
)

// Validation failures of the curvature step. Callers tell them apart with
// errors.Is or eris.Is.
var (
	ErrMissingSection = eris.New("curvature field is missing")
	ErrMissingField   = eris.New("units or values field is missing")
	ErrMissingColumn  = eris.New(`units must contain "position", "radius at start" and "radius at end"`)
	ErrColumnConflict = eris.New(`units already contain a "radius" column`)
	ErrMalformedRow   = track.ErrRowShape
)
