package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/estatehub/internal/domain/ai"
)

// GetSystemPrompt sets tone and hard limits for listing copy.
func GetSystemPrompt() string {
	return `You are a real-estate copywriter. Write one listing description in plain prose (no markdown, no headings, no bullet lists).

Requirements:
- 80 to 150 words.
- Use only the facts given in the JSON input. Never invent amenities, distances, school names or neighbourhood claims.
- Mention the property type, bedrooms, bathrooms, size and city when they are present.
- Do not state the price unless it is greater than zero.
- Avoid language that could be read as steering toward or away from any group of buyers or renters.`
}

// GetUserPrompt embeds the draft as JSON.
func GetUserPrompt(d ai.ListingDraft) string {
	b, err := json.Marshal(d)
	if err != nil {
		b = []byte("{}")
	}
	return fmt.Sprintf("Write the description for this listing. Listing: %s", b)
}
