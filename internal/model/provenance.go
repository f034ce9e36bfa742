package model

// Preprocessing records where a track document came from and which
// preprocessing steps have rewritten it. It lives under
// metadata.preprocessing.
type Preprocessing struct {
	OriginalFile string `json:"original file"`
	Curvatures   string `json:"curvatures,omitempty"`
}

// CurvatureNote describes what the curvature step does to a document.
const CurvatureNote = "nonnegative radii; transitions replaced by average of (abs) of involved radii"
