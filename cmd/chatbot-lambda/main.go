// Package main provides the chatbot Lambda.
//
// The Gemini API key is resolved at cold start: GEMINI_API_KEY directly, or
// fetched from SSM Parameter Store at SSM_API_KEY_PARAM.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/chatbot"
	"github.com/oussama490/photo-app/internal/handlers"
	"github.com/oussama490/photo-app/internal/lambdaboot"
	"github.com/oussama490/photo-app/internal/logging"
)

var coldStart = true

var handler *handlers.Chat

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	lambdaboot.LoadGeminiKey(aws.SSM)

	client, err := chatbot.NewGeminiClient(context.Background(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	handler = handlers.NewChat(&chatbot.GeminiCompleter{Client: client})

	lambdaboot.StartupLog("chatbot-lambda", initStart).
		SSMParam("geminiApiKey", logging.EnvOrDefault("SSM_API_KEY_PARAM", "/photo-app/prod/gemini-api-key")).
		Config("geminiModel", chatbot.GetModelName()).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "chatbot-lambda").Msg("Cold start — first invocation")
		}
		return handler.Handle(ctx, req)
	})
}
