// Package main provides the upload-URL issuer Lambda.
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/handlers"
	"github.com/oussama490/photo-app/internal/lambdaboot"
	"github.com/oussama490/photo-app/internal/logging"
)

var coldStart = true

var handler *handlers.UploadURL

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(aws.Config, "PHOTO_BUCKET_NAME")
	handler = handlers.NewUploadURL(s3s.Presigner, s3s.Bucket)

	lambdaboot.StartupLog("upload-url-lambda", initStart).
		S3Bucket("photos", s3s.Bucket).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "upload-url-lambda").Msg("Cold start — first invocation")
		}
		return handler.Handle(ctx, req)
	})
}
