package knowledge

import "strings"

type adviceEntry struct {
	Keyword string
	Advice  string
}

// Order matters: the first keyword found in a message wins.
var adviceTable = []adviceEntry{
	{"yellow leaves", "Yellow leaves usually indicate overwatering, underwatering, or natural aging. Check soil moisture - if soggy, reduce watering. If dry, increase frequency. Remove yellow leaves to redirect energy to healthy growth."},
	{"brown tips", "Brown leaf tips typically result from low humidity, fluoride in tap water, or overfertilization. Increase humidity, use filtered water, and reduce fertilizer. Trim brown tips with clean scissors."},
	{"dropping leaves", "Leaf drop can indicate stress from changes in light, watering, or environment. Maintain consistent care routine and avoid moving the plant frequently. Some leaf drop is normal when adjusting to new conditions."},
	{"not growing", "Slow growth may indicate insufficient light, nutrients, or it may be dormant season. Ensure adequate bright light, feed during growing season (spring/summer), and be patient during winter months."},
	{"pests", "Common pests include spider mites, aphids, and mealybugs. Inspect regularly, isolate affected plants, and treat with insecticidal soap or neem oil. Increase humidity to prevent spider mites."},
	{"overwatering", "Signs include yellow leaves, musty smell, or soft stems. Allow soil to dry out, improve drainage, and reduce watering frequency. Remove affected roots if repotting."},
	{"underwatering", "Signs include wilting, dry soil, and crispy leaves. Water thoroughly until water drains from bottom. Establish consistent watering schedule based on soil moisture."},
}

const (
	Greeting = "Hi! I'm your PlantPal assistant. Ask me anything about plant care - like 'Why are my plant's leaves turning yellow?' or 'How often should I water my succulent?'"

	MoreDetailPrompt = "\n\nFor more specific help, please describe your plant type and current care routine."

	RateLimitedPrefix   = "I'm experiencing high demand right now. Here's what I can tell you from my offline knowledge: "
	RateLimitedFallback = "Try asking a more specific question about watering, light, or common plant problems."

	GenericChatReply = "I'm having trouble connecting to my knowledge base right now. For general plant care, remember: check soil moisture before watering, provide bright indirect light, and maintain good drainage. What specific plant problem are you experiencing?"

	// Used only if producing a reply fails outright.
	ChatFailureReply = "I'm having trouble right now, but here's some general advice: Most plant problems stem from watering issues. Check if your soil is too wet or too dry, ensure good drainage, and provide bright indirect light. What specific symptoms are you seeing?"

	wateringHeuristic   = "Most plants should be watered when the top inch of soil feels dry. Stick your finger into the soil - if it's dry, it's time to water. Water thoroughly until it drains from the bottom, then empty the saucer."
	lightHeuristic      = "Most houseplants prefer bright, indirect light. Place them near a window but not in direct sunlight, which can scorch leaves. If you notice leggy growth, your plant likely needs more light."
	fertilizerHeuristic = "Feed your plants monthly during spring and summer with a balanced liquid fertilizer diluted to half strength. Stop fertilizing in fall and winter when growth slows."
)

// LookupAdvice matches message against the keyword table, case-insensitively, and
// returns the advice followed by a prompt for more detail.
func LookupAdvice(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, entry := range adviceTable {
		if strings.Contains(lower, entry.Keyword) {
			return entry.Advice + MoreDetailPrompt, true
		}
	}
	return "", false
}

// Heuristic answers broad watering, light and fertilizer questions, checked in that order.
func Heuristic(message string) (string, bool) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "water"):
		return wateringHeuristic, true
	case strings.Contains(lower, "light"):
		return lightHeuristic, true
	case strings.Contains(lower, "fertilizer"), strings.Contains(lower, "feed"):
		return fertilizerHeuristic, true
	}
	return "", false
}
