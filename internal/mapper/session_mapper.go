package mapper

import (
	"plantpal-be/internal/dto"
	"plantpal-be/internal/entity"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) SessionToResponse(s entity.SessionState) *dto.SessionResponse {
	transcript := make([]dto.ChatMessageResponse, 0, len(s.Transcript))
	for _, msg := range s.Transcript {
		transcript = append(transcript, m.ChatMessageToResponse(msg))
	}

	var image *dto.ImageResponse
	if s.Image != nil {
		image = &dto.ImageResponse{
			Filename:    s.Image.Filename,
			ContentType: s.Image.ContentType,
			Size:        s.Image.Size,
			UploadedAt:  s.Image.UploadedAt,
		}
	}

	return &dto.SessionResponse{
		Id:             s.Id,
		Image:          image,
		Identification: m.ResultToResponse(s.Result),
		Error:          m.ErrorToResponse(s.Error),
		Analyzing:      s.Analyzing,
		ChatPending:    s.ChatPending,
		OfflineMode:    s.OfflineMode,
		Transcript:     transcript,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *SessionMapper) IdentifyToResponse(s entity.SessionState) *dto.IdentifyResponse {
	return &dto.IdentifyResponse{
		Identification: m.ResultToResponse(s.Result),
		Error:          m.ErrorToResponse(s.Error),
		OfflineMode:    s.OfflineMode,
		Analyzing:      s.Analyzing,
	}
}

func (m *SessionMapper) ResultToResponse(r *entity.IdentificationResult) *dto.IdentificationResponse {
	if r == nil {
		return nil
	}

	return &dto.IdentificationResponse{
		ScientificName:    r.ScientificName,
		CommonName:        r.CommonName,
		ConfidencePercent: r.ConfidencePercent,
		Note:              r.Note,
		Source:            string(r.Source),
		SourceLabel:       r.Source.Label(),
		Care: dto.CareResponse{
			Watering:    r.Care.Watering,
			Light:       r.Care.Light,
			Humidity:    r.Care.Humidity,
			Temperature: r.Care.Temperature,
			Soil:        r.Care.Soil,
			Fertilizer:  r.Care.Fertilizer,
			Repotting:   r.Care.Repotting,
			Tips:        append([]string(nil), r.Care.Tips...),
		},
		IdentifiedAt: r.IdentifiedAt,
	}
}

func (m *SessionMapper) ErrorToResponse(e *entity.ErrorDescriptor) *dto.ErrorDescriptorDTO {
	if e == nil {
		return nil
	}
	return &dto.ErrorDescriptorDTO{Reason: string(e.Reason), Message: e.Message}
}

func (m *SessionMapper) ChatMessageToResponse(msg entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Id:        msg.Id,
		Sender:    string(msg.Sender),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}
