// Package lambdaboot provides shared Lambda cold-start bootstrap logic.
//
// Every Lambda in the project needs some subset of: AWS config, S3,
// DynamoDB, Rekognition, SSM parameter fetch, and startup logging. This
// package extracts the common init patterns so each Lambda's init() is a
// short composition of helpers.
package lambdaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/logging"
	"github.com/oussama490/photo-app/internal/photostore"
)

// AWSClients holds the core AWS SDK clients used across Lambdas.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// S3Clients holds S3 client, presigner, and bucket name.
type S3Clients struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// InitS3 creates an S3 client, presigner, and reads the bucket name from the
// given environment variable. Fatals if the env var is empty.
func InitS3(cfg aws.Config, bucketEnvVar string) S3Clients {
	client := s3.NewFromConfig(cfg)
	bucket := os.Getenv(bucketEnvVar)
	if bucket == "" {
		log.Fatal().Str("envVar", bucketEnvVar).Msg("Bucket environment variable is required")
	}
	return S3Clients{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
	}
}

// InitPhotoStore creates the photo metadata store from the given config and
// table name environment variable. Fatals if the env var is empty.
func InitPhotoStore(cfg aws.Config, tableEnvVar string) *photostore.PhotoStore {
	tableName := os.Getenv(tableEnvVar)
	if tableName == "" {
		log.Fatal().Str("envVar", tableEnvVar).Msg("DynamoDB table environment variable is required")
	}
	return photostore.NewPhotoStore(dynamodb.NewFromConfig(cfg), tableName)
}

// InitAlbumStore creates the album store from the given config and table
// name environment variable. Fatals if the env var is empty.
func InitAlbumStore(cfg aws.Config, tableEnvVar string) *photostore.AlbumStore {
	tableName := os.Getenv(tableEnvVar)
	if tableName == "" {
		log.Fatal().Str("envVar", tableEnvVar).Msg("DynamoDB table environment variable is required")
	}
	return photostore.NewAlbumStore(dynamodb.NewFromConfig(cfg), tableName)
}

// InitRekognition creates a Rekognition client.
func InitRekognition(cfg aws.Config) *rekognition.Client {
	return rekognition.NewFromConfig(cfg)
}

// LoadGeminiKey fetches the Gemini API key from SSM Parameter Store if not
// already set via GEMINI_API_KEY env var. Fatals on error.
func LoadGeminiKey(ssmClient *ssm.Client) {
	if os.Getenv("GEMINI_API_KEY") != "" {
		return
	}
	paramName := os.Getenv("SSM_API_KEY_PARAM")
	if paramName == "" {
		paramName = "/photo-app/prod/gemini-api-key"
	}
	ssmStart := time.Now()
	result, err := ssmClient.GetParameter(context.Background(), &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.Fatal().Err(err).Str("param", paramName).Msg("Failed to read API key from SSM")
	}
	os.Setenv("GEMINI_API_KEY", *result.Parameter.Value)
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Gemini API key loaded from SSM")
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
