package prompt

import (
	"fmt"
	"strings"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an expert child development specialist analyzing a short video of a child for early autism screening purposes.

Analyze this video carefully and rate the following behavioral indicators on a scale of 0-10, where:
- 10 = completely typical development
- 5 = some concerns
- 0 = significant concern

Rate ONLY these 5 indicators:
1. eye_contact
2. response_to_name
3. social_engagement
4. repetitive_movements (10 = none observed, 0 = frequent)
5. pointing_gesturing

If an indicator cannot be observed in the video, use null for it.
Also provide a brief "summary" (2-3 sentences) and key "observations" as a list.

Respond ONLY with valid JSON, no markdown:
{
  "indicators": {
    "eye_contact": 0,
    "response_to_name": 0,
    "social_engagement": 0,
    "repetitive_movements": 0,
    "pointing_gesturing": 0
  },
  "summary": "string",
  "observations": ["string"]
}`
}

// GetUserPrompt adds the recording context next to the video part.
// A non-positive age is reported as unknown.
func GetUserPrompt(category string, ageMonths int) string {
	age := "unknown"
	if ageMonths > 0 {
		age = fmt.Sprintf("%d", ageMonths)
	}
	if strings.TrimSpace(category) == "" {
		category = "free"
	}
	return fmt.Sprintf("Context: %q video, child age: %s months.", category, age)
}
