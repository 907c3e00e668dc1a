// Package main provides the favorite-toggle Lambda.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/handlers"
	"github.com/oussama490/photo-app/internal/lambdaboot"
	"github.com/oussama490/photo-app/internal/logging"
)

var coldStart = true

var handler *handlers.Favorite

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	photos := lambdaboot.InitPhotoStore(aws.Config, "PHOTO_TABLE_NAME")
	handler = handlers.NewFavorite(photos)

	lambdaboot.StartupLog("favorite-lambda", initStart).
		DynamoTable("photos", os.Getenv("PHOTO_TABLE_NAME")).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "favorite-lambda").Msg("Cold start — first invocation")
		}
		return handler.Handle(ctx, req)
	})
}
