// Package main provides the profile photo Lambda: POST stores a base64
// payload under the caller's deterministic key, GET mints a fresh signed
// view URL for it.
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

var handler *handlers.Profile

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(aws.Config, "PROFILE_BUCKET_NAME")
	handler = handlers.NewProfile(s3s.Client, s3s.Presigner, s3s.Bucket)

	lambdaboot.StartupLog("profile-photo-lambda", initStart).
		S3Bucket("profiles", s3s.Bucket).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "profile-photo-lambda").Msg("Cold start — first invocation")
		}
		return handler.Handle(ctx, req)
	})
}
