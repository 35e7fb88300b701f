// Package vision defines the contract shared by the remote plant identification
// clients and the helpers they have in common.
package vision

import (
	"context"
	"math"
)

// Image is a photo to identify.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Candidate is the best match a provider returned for an image.
type Candidate struct {
	ScientificName    string
	CommonName        string
	ConfidencePercent int
}

// Identifier is implemented by every remote identification backend.
type Identifier interface {
	Name() string
	Identify(ctx context.Context, image Image) (*Candidate, error)
}

// NormalizeConfidence turns a 0..1 score into a whole percentage, rounding half up
// and clamping to 0..100.
func NormalizeConfidence(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	percent := int(math.Floor(score*100 + 0.5))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
