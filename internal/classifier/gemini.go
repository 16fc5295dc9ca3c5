package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 10 * time.Second
)

// GeminiLabeler implements Labeler with the Gemini API. Calls are bounded by
// a timeout and constrained to a structured single-field reply.
type GeminiLabeler struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiLabeler creates a labeler using ambient credentials
// (GEMINI_API_KEY).
func NewGeminiLabeler(ctx context.Context) (*GeminiLabeler, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	return &GeminiLabeler{client: client, model: defaultModel, timeout: defaultTimeout}, nil
}

// Label asks the model to pick exactly one category name from the closed
// list. The reply schema forces a single "category" field; anything else is
// an error for the caller to treat as non-match.
func (g *GeminiLabeler) Label(ctx context.Context, description string, names []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"You are a personal finance assistant. Classify the expense below into exactly one of these categories: %s.\n\nExpense description: %q",
		strings.Join(names, ", "), description,
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category": {
					Type:        genai.TypeString,
					Description: "Name of the chosen category, verbatim from the list.",
				},
			},
			Required: []string{"category"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var reply struct {
		Category string `json:"category"`
	}
	raw := resp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return "", fmt.Errorf("malformed classifier reply %q: %w", raw, err)
	}
	if reply.Category == "" {
		return "", fmt.Errorf("classifier reply missing category field")
	}
	return reply.Category, nil
}
