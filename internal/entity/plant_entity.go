package entity

import "time"

type IdentificationSource string

const (
	SourcePrimaryVision   IdentificationSource = "primary_vision_api"
	SourceSecondaryVision IdentificationSource = "secondary_vision_api"
	SourceOfflineDatabase IdentificationSource = "offline_database"
	SourceGenericFallback IdentificationSource = "generic_fallback"
)

// Label is the human readable name shown next to a result.
func (s IdentificationSource) Label() string {
	switch s {
	case SourcePrimaryVision:
		return "PlantNet API"
	case SourceSecondaryVision:
		return "OpenAI Vision"
	case SourceOfflineDatabase:
		return "Offline Database"
	case SourceGenericFallback:
		return "General Care Guidelines"
	default:
		return string(s)
	}
}

// CareProfile is structured plant-maintenance guidance.
type CareProfile struct {
	Watering    string   `json:"watering"`
	Light       string   `json:"light"`
	Humidity    string   `json:"humidity"`
	Temperature string   `json:"temperature"`
	Soil        string   `json:"soil"`
	Fertilizer  string   `json:"fertilizer"`
	Repotting   string   `json:"repotting"`
	Tips        []string `json:"tips"`
}

// IsComplete reports whether every field is filled and at least one tip exists.
func (c CareProfile) IsComplete() bool {
	for _, field := range []string{c.Watering, c.Light, c.Humidity, c.Temperature, c.Soil, c.Fertilizer, c.Repotting} {
		if field == "" {
			return false
		}
	}
	return len(c.Tips) > 0
}

func (c CareProfile) Clone() CareProfile {
	c.Tips = append([]string(nil), c.Tips...)
	return c
}

// IdentificationResult is immutable once built. A later identification replaces it.
type IdentificationResult struct {
	ScientificName    string               `json:"scientific_name"`
	CommonName        string               `json:"common_name"`
	ConfidencePercent int                  `json:"confidence_percent"`
	Note              string               `json:"note,omitempty"`
	Source            IdentificationSource `json:"source"`
	Care              CareProfile          `json:"care"`
	IdentifiedAt      time.Time            `json:"identified_at"`
}

type ErrorReason string

const (
	ReasonRateLimited          ErrorReason = "rate_limited"
	ReasonUnauthorized         ErrorReason = "unauthorized"
	ReasonServiceUnavailable   ErrorReason = "service_unavailable"
	ReasonIdentificationFailed ErrorReason = "identification_failed"
)

// ErrorDescriptor explains why a lower-confidence result is being shown.
type ErrorDescriptor struct {
	Reason  ErrorReason `json:"reason"`
	Message string      `json:"message"`
}

// IdentificationOutcome is everything one identification attempt changes in a session.
type IdentificationOutcome struct {
	Result      IdentificationResult
	Error       *ErrorDescriptor
	OfflineMode bool
}

// UploadedImage is the photo currently attached to a session.
type UploadedImage struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	Data        []byte    `json:"-"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
