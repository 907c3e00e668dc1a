package chatbot

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when GEMINI_MODEL is unset.
const DefaultModelName = "gemini-2.0-flash"

const maxOutputTokens = 1000

// Message is one turn of the conversation as sent by the frontend.
// Role is "user" for the caller's messages and "bot" for prior replies.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Completer generates a free-form reply from a conversation history.
// GeminiCompleter is the production implementation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// GetModelName returns the Gemini model to use, honoring the
// GEMINI_MODEL override.
func GetModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}

// NewGeminiClient creates a Gemini API client with the provided API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// GeminiCompleter answers utterances no intent rule matched.
type GeminiCompleter struct {
	Client *genai.Client
	Model  string
}

func (g *GeminiCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	var contents []*genai.Content
	for _, m := range messages {
		role := "model"
		if m.Role == "user" {
			role = "user"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: maxOutputTokens,
	}

	model := g.Model
	if model == "" {
		model = GetModelName()
	}

	resp, err := g.Client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("received empty response from Gemini API")
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Respond answers the latest user message, trying the intent table
// before falling back to the completer. The returned source is "rule"
// or "gemini".
func Respond(ctx context.Context, completer Completer, messages []Message) (reply, source string, err error) {
	if len(messages) == 0 {
		return "", "", fmt.Errorf("conversation is empty")
	}

	last := messages[len(messages)-1]
	if canned, ok := MatchIntent(last.Text); ok {
		return canned, "rule", nil
	}

	log.Debug().Int("history_len", len(messages)).Msg("No intent rule matched, deferring to Gemini")
	reply, err = completer.Complete(ctx, messages)
	if err != nil {
		return "", "", err
	}
	return reply, "gemini", nil
}
