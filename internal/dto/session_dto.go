package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	Id             uuid.UUID               `json:"id"`
	Image          *ImageResponse          `json:"image"`
	Identification *IdentificationResponse `json:"identification"`
	Error          *ErrorDescriptorDTO     `json:"error"`
	Analyzing      bool                    `json:"analyzing"`
	ChatPending    bool                    `json:"chat_pending"`
	OfflineMode    bool                    `json:"offline_mode"`
	Transcript     []ChatMessageResponse   `json:"transcript"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type ImageResponse struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type ErrorDescriptorDTO struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type IdentificationResponse struct {
	ScientificName    string       `json:"scientific_name"`
	CommonName        string       `json:"common_name"`
	ConfidencePercent int          `json:"confidence_percent"`
	Note              string       `json:"note,omitempty"`
	Source            string       `json:"source"`
	SourceLabel       string       `json:"source_label"`
	Care              CareResponse `json:"care"`
	IdentifiedAt      time.Time    `json:"identified_at"`
}

type CareResponse struct {
	Watering    string   `json:"watering"`
	Light       string   `json:"light"`
	Humidity    string   `json:"humidity"`
	Temperature string   `json:"temperature"`
	Soil        string   `json:"soil"`
	Fertilizer  string   `json:"fertilizer"`
	Repotting   string   `json:"repotting"`
	Tips        []string `json:"tips"`
}

// IdentifyResponse carries the result of one upload. Identification is nil when
// the session was reset before the identification finished.
type IdentifyResponse struct {
	Identification *IdentificationResponse `json:"identification"`
	Error          *ErrorDescriptorDTO     `json:"error"`
	OfflineMode    bool                    `json:"offline_mode"`
	Analyzing      bool                    `json:"analyzing"`
}
