package llm

import (
	"strings"

	"google.golang.org/genai"
)

var severityEnum = []string{"low", "medium", "high", "critical"}

var clusterRequired = []string{"title", "description", "severity", "impactScore", "suggestedAction"}

// clusterJSONSchema is the cluster array schema in JSON Schema form, used by
// OpenAI and Ollama structured output. id is accepted but not required.
func clusterJSONSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":          map[string]any{"type": "string"},
				"title":       map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"severity":    map[string]any{"type": "string", "enum": severityEnum},
				"impactScore": map[string]any{"type": "integer"},
				"relatedFeedbackIds": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"suggestedAction": map[string]any{"type": "string"},
			},
			"required": clusterRequired,
		},
	}
}

// clusterGenAISchema is the same schema for the Gemini responseSchema field
func clusterGenAISchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":          {Type: genai.TypeString},
				"title":       {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"severity":    {Type: genai.TypeString, Enum: severityEnum},
				"impactScore": {Type: genai.TypeInteger},
				"relatedFeedbackIds": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"suggestedAction": {Type: genai.TypeString},
			},
			Required: clusterRequired,
		},
	}
}

// stripCodeFence removes a surrounding ```json ... ``` block if the model added one
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx != -1 {
		text = text[idx+1:]
	} else {
		text = ""
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
