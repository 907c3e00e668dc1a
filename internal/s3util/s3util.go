// Package s3util provides the S3 helpers shared by the photo Lambdas:
// whole-object get/put/delete and presigned upload/download URLs.
//
// The ObjectAPI and PresignAPI interfaces mirror the aws-sdk-go-v2 client
// methods actually used, so handler tests can substitute fakes without a
// real S3 endpoint.
package s3util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// PresignTTL is the lifetime of every signed URL the backend mints.
const PresignTTL = time.Hour

// ObjectAPI is the subset of *s3.Client used for direct object access.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of *s3.PresignClient used for URL minting.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// GetObjectBytes downloads an entire object into memory. Photo objects are
// bounded by the upload content-type contract (JPEG, a few MB), so buffering
// beats the temp-file dance.
func GetObjectBytes(ctx context.Context, client ObjectAPI, bucket, key string) ([]byte, error) {
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject %s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read S3 object body %s/%s: %w", bucket, key, err)
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("Downloaded object from S3")
	return data, nil
}

// PutObjectBytes uploads a byte slice, overwriting any existing object at key.
func PutObjectBytes(ctx context.Context, client ObjectAPI, bucket, key, contentType string, data []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject %s/%s: %w", bucket, key, err)
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("Uploaded object to S3")
	return nil
}

// DeleteObject removes an object. S3 deletes are idempotent: deleting a key
// that never existed still succeeds.
func DeleteObject(ctx context.Context, client ObjectAPI, bucket, key string) error {
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("S3 DeleteObject %s/%s: %w", bucket, key, err)
	}
	return nil
}
