// Package vision wraps the Rekognition label-detection call used by the
// analyze Lambda and the admin CLI.
package vision

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekognitiontypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/rs/zerolog/log"
)

// Detection parameters: top 10 labels at 80% confidence or better.
// Confidence scores are discarded; only the names are persisted.
const (
	maxLabels     = 10
	minConfidence = 80.0
)

// LabelAPI is the subset of *rekognition.Client used here.
type LabelAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// DetectLabels runs label detection against an object already in S3 and
// returns the label names in Rekognition's confidence order.
func DetectLabels(ctx context.Context, client LabelAPI, bucket, key string) ([]string, error) {
	start := time.Now()

	result, err := client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &rekognitiontypes.Image{
			S3Object: &rekognitiontypes.S3Object{
				Bucket: &bucket,
				Name:   &key,
			},
		},
		MaxLabels:     aws.Int32(maxLabels),
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("Rekognition DetectLabels %s/%s: %w", bucket, key, err)
	}

	labels := make([]string, 0, len(result.Labels))
	for _, label := range result.Labels {
		labels = append(labels, aws.ToString(label.Name))
	}

	log.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Strs("labels", labels).
		Dur("elapsed", time.Since(start)).
		Msg("Labels detected")

	return labels, nil
}
