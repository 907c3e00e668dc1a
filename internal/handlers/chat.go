package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/apigw"
	"github.com/oussama490/photo-app/internal/chatbot"
	"github.com/oussama490/photo-app/internal/metrics"
)

// Chat answers a conversation: the latest user utterance is matched against
// the intent table first, and only unmatched utterances reach the
// generative completer.
type Chat struct {
	completer chatbot.Completer
}

// NewChat creates the chat handler.
func NewChat(completer chatbot.Completer) *Chat {
	return &Chat{completer: completer}
}

type chatRequest struct {
	Messages []chatbot.Message `json:"messages"`
}

// Handle replies to the most recent message of the conversation.
func (h *Chat) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body chatRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("invalid JSON body")), nil
	}
	if len(body.Messages) == 0 {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("no message provided")), nil
	}

	start := time.Now()
	reply, source, err := chatbot.Respond(ctx, h.completer, body.Messages)
	if err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Internal("chat service unavailable", err)), nil
	}

	metrics.New(metrics.Namespace).
		Dimension("Source", source).
		Count("ChatReplies").
		Metric("ChatLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
		Flush()

	log.Info().Str("source", source).Int("historyLen", len(body.Messages)).Msg("Chat reply sent")
	return apigw.Respond(200, apigw.MethodsPost, map[string]string{"reply": reply}), nil
}
