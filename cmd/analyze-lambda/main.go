// Package main provides the photo analysis Lambda.
//
// Invoked two ways: directly through API Gateway as part of the upload
// flow, and asynchronously by S3 object-created notifications on the photo
// bucket. Both paths normalize the image in place and persist detected
// labels to the photo table.
package main

import (
	"context"
	"encoding/json"
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

var handler *handlers.Analyze

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(aws.Config, "PHOTO_BUCKET_NAME")
	photos := lambdaboot.InitPhotoStore(aws.Config, "PHOTO_TABLE_NAME")
	rek := lambdaboot.InitRekognition(aws.Config)
	handler = handlers.NewAnalyze(s3s.Client, rek, photos, s3s.Bucket)

	lambdaboot.StartupLog("analyze-lambda", initStart).
		S3Bucket("photos", s3s.Bucket).
		DynamoTable("photos", os.Getenv("PHOTO_TABLE_NAME")).
		Log()
}

func main() {
	lambda.Start(func(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
		if coldStart {
			coldStart = false
			log.Info().Str("function", "analyze-lambda").Msg("Cold start — first invocation")
		}
		return handler.Handle(ctx, raw)
	})
}
