package entity

import "time"

type ChatSender string

const (
	ChatSenderUser      ChatSender = "user"
	ChatSenderAssistant ChatSender = "assistant"
)

type ChatMessage struct {
	Id        int        `json:"id"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// ChatTier records which stage of the chat fallback chain produced a reply.
type ChatTier string

const (
	ChatTierKnowledgeBase ChatTier = "knowledge_base"
	ChatTierRemote        ChatTier = "remote"
	ChatTierRateLimited   ChatTier = "rate_limited"
	ChatTierHeuristic     ChatTier = "heuristic"
	ChatTierGeneric       ChatTier = "generic"
)

type ChatReply struct {
	Text string
	Tier ChatTier
}
