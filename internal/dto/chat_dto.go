package dto

import "time"

type ChatMessageResponse struct {
	Id        int       `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type SendChatResponse struct {
	Sent  ChatMessageResponse `json:"sent"`
	Reply ChatMessageResponse `json:"reply"`
	Tier  string              `json:"tier"`
}
