package s3util

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// attachmentDisposition forces browsers to download rather than render.
const attachmentDisposition = "attachment"

// PresignUpload mints a signed PUT URL for the given key, valid for
// PresignTTL and bound to the given content type. The client must send the
// same Content-Type header or the signature fails.
func PresignUpload(ctx context.Context, presigner PresignAPI, bucket, key, contentType string) (string, error) {
	result, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignTTL
	})
	if err != nil {
		return "", fmt.Errorf("presign PutObject %s/%s: %w", bucket, key, err)
	}
	return result.URL, nil
}

// PresignDownload mints a signed GET URL for the given key, valid for
// PresignTTL, with a Content-Disposition that forces download.
func PresignDownload(ctx context.Context, presigner PresignAPI, bucket, key string) (string, error) {
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     &bucket,
		Key:                        &key,
		ResponseContentDisposition: aws.String(attachmentDisposition),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignTTL
	})
	if err != nil {
		return "", fmt.Errorf("presign GetObject %s/%s: %w", bucket, key, err)
	}
	return result.URL, nil
}

// PresignView mints a signed GET URL without a forced download disposition.
// Used for profile photos, which the frontend renders inline.
func PresignView(ctx context.Context, presigner PresignAPI, bucket, key string) (string, error) {
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignTTL
	})
	if err != nil {
		return "", fmt.Errorf("presign GetObject %s/%s: %w", bucket, key, err)
	}
	return result.URL, nil
}
