// Package main provides the photoapp-admin operator CLI.
//
// Two maintenance jobs the request paths deliberately never do:
//
//	photoapp-admin orphans    — cross-check the photo table against the
//	                            bucket in both directions and report strays
//	photoapp-admin reprocess  — re-run normalization and label analysis
//	                            for one object key
//
// Orphans appear when one half of a delete fails, or when an upload never
// reached analysis.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/oussama490/photo-app/internal/handlers"
	"github.com/oussama490/photo-app/internal/lambdaboot"
	"github.com/oussama490/photo-app/internal/logging"
)

// CLI flags
var (
	tableFlag  string
	bucketFlag string
)

var rootCmd = &cobra.Command{
	Use:   "photoapp-admin",
	Short: "Operator tooling for the photo backend",
	Long: `photoapp-admin runs maintenance jobs against the photo table and bucket.

Examples:
  photoapp-admin orphans
  photoapp-admin orphans --table photos-prod --bucket photo-uploads-prod
  photoapp-admin reprocess photo/3f2a9c.jpg`,
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Report records without objects and objects without records",
	Run:   runOrphans,
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <key>",
	Short: "Re-run normalization and label analysis for one object key",
	Args:  cobra.ExactArgs(1),
	Run:   runReprocess,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tableFlag, "table", os.Getenv("PHOTO_TABLE_NAME"), "Photo table name (defaults to PHOTO_TABLE_NAME)")
	rootCmd.PersistentFlags().StringVar(&bucketFlag, "bucket", os.Getenv("PHOTO_BUCKET_NAME"), "Photo bucket name (defaults to PHOTO_BUCKET_NAME)")
	rootCmd.AddCommand(orphansCmd)
	rootCmd.AddCommand(reprocessCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func requireFlags() {
	if tableFlag == "" || bucketFlag == "" {
		log.Fatal().Msg("Both --table and --bucket are required (or set PHOTO_TABLE_NAME / PHOTO_BUCKET_NAME)")
	}
	os.Setenv("PHOTO_TABLE_NAME", tableFlag)
	os.Setenv("PHOTO_BUCKET_NAME", bucketFlag)
}

func runOrphans(cmd *cobra.Command, args []string) {
	logging.Init()
	requireFlags()
	ctx := context.Background()

	awsClients := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(awsClients.Config, "PHOTO_BUCKET_NAME")
	photos := lambdaboot.InitPhotoStore(awsClients.Config, "PHOTO_TABLE_NAME")

	records, err := photos.ListAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to scan photo table")
	}
	recorded := make(map[string]bool, len(records))
	for _, rec := range records {
		recorded[rec.Photo] = true
	}

	stored := make(map[string]bool)
	paginator := s3.NewListObjectsV2Paginator(s3s.Client, &s3.ListObjectsV2Input{
		Bucket: &s3s.Bucket,
		Prefix: aws.String("photo/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list bucket objects")
		}
		for _, obj := range page.Contents {
			stored[*obj.Key] = true
		}
	}

	var recordOrphans, objectOrphans []string
	for key := range recorded {
		if !stored[key] {
			recordOrphans = append(recordOrphans, key)
		}
	}
	for key := range stored {
		if !recorded[key] {
			objectOrphans = append(objectOrphans, key)
		}
	}

	for _, key := range recordOrphans {
		fmt.Printf("record without object: %s\n", key)
	}
	for _, key := range objectOrphans {
		fmt.Printf("object without record: %s\n", key)
	}
	log.Info().
		Int("records", len(records)).
		Int("objects", len(stored)).
		Int("recordOrphans", len(recordOrphans)).
		Int("objectOrphans", len(objectOrphans)).
		Msg("Orphan audit complete")
}

// runReprocess feeds a synthetic single-record S3 event through the same
// handler the bucket notification invokes, so the CLI and the Lambda can
// never drift apart.
func runReprocess(cmd *cobra.Command, args []string) {
	logging.Init()
	requireFlags()
	key := args[0]
	ctx := context.Background()

	awsClients := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(awsClients.Config, "PHOTO_BUCKET_NAME")
	photos := lambdaboot.InitPhotoStore(awsClients.Config, "PHOTO_TABLE_NAME")
	rek := lambdaboot.InitRekognition(awsClients.Config)
	analyze := handlers.NewAnalyze(s3s.Client, rek, photos, s3s.Bucket)

	event := map[string]interface{}{
		"Records": []map[string]interface{}{{
			"s3": map[string]interface{}{
				"bucket": map[string]string{"name": s3s.Bucket},
				"object": map[string]string{"key": key},
			},
		}},
	}
	raw, err := json.Marshal(event)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build event")
	}

	start := time.Now()
	resp, err := analyze.Handle(ctx, raw)
	if err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("Reprocess failed")
	}

	fmt.Println(resp.Body)
	if resp.StatusCode != 200 {
		log.Fatal().Int("status", resp.StatusCode).Str("key", key).Msg("Reprocess returned an error")
	}
	log.Info().Str("key", key).Dur("elapsed", time.Since(start)).Msg("Reprocess complete")
}
