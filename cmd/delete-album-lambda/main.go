// Package main provides the album deletion Lambda.
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

var handler *handlers.Albums

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	albums := lambdaboot.InitAlbumStore(aws.Config, "ALBUMS_TABLE_NAME")
	handler = handlers.NewAlbums(albums)

	lambdaboot.StartupLog("delete-album-lambda", initStart).
		DynamoTable("albums", os.Getenv("ALBUMS_TABLE_NAME")).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "delete-album-lambda").Msg("Cold start — first invocation")
		}
		return handler.HandleDelete(ctx, req)
	})
}
