// Package main provides the photo deletion Lambda.
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

var handler *handlers.DeletePhoto

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(aws.Config, "PHOTO_BUCKET_NAME")
	photos := lambdaboot.InitPhotoStore(aws.Config, "PHOTO_TABLE_NAME")
	handler = handlers.NewDeletePhoto(photos, s3s.Client, s3s.Bucket)

	lambdaboot.StartupLog("delete-photo-lambda", initStart).
		S3Bucket("photos", s3s.Bucket).
		DynamoTable("photos", os.Getenv("PHOTO_TABLE_NAME")).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "delete-photo-lambda").Msg("Cold start — first invocation")
		}
		return handler.Handle(ctx, req)
	})
}
