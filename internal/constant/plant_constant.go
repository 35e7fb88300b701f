package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	ChatPersonaPrompt = "You are PlantPal, a friendly plant care expert. Help diagnose plant problems and provide specific care advice. Be conversational and ask follow-up questions when helpful."

	ChatMaxTokens   = 300
	ChatTemperature = 0.7

	CareMaxTokens = 600

	// %s is the species name
	CarePromptTemplate = `Provide care instructions for %s. Return ONLY a JSON object with this structure:
{
  "care": {
    "watering": "detailed watering instructions",
    "light": "light requirements",
    "humidity": "humidity needs",
    "temperature": "temperature range",
    "soil": "soil requirements",
    "fertilizer": "fertilization schedule",
    "repotting": "repotting guidance"
  },
  "tips": ["tip1", "tip2", "tip3", "tip4"]
}`
)

const (
	MessageRateLimited        = "API quota exceeded. Using offline identification."
	MessageUnauthorized       = "API key invalid. Using offline identification."
	MessageServiceUnavailable = "AI services unavailable. Using offline identification."
	MessageIdentifyFailed     = "Unable to identify plant. Please try again or ask in the chat for help."
)

const (
	EventSessionCreated          = "SESSION_CREATED"
	EventIdentificationStarted   = "IDENTIFICATION_STARTED"
	EventIdentificationCompleted = "IDENTIFICATION_COMPLETED"
	EventChatMessageAdded        = "CHAT_MESSAGE_ADDED"
	EventSessionReset            = "SESSION_RESET"
)
