// Package handlers implements the request handling behind each interactive
// Lambda. Every handler is a small struct holding its collaborators behind
// narrow interfaces, so tests wire fakes where production wires the AWS SDK
// clients built in each binary's init().
package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/apigw"
	"github.com/oussama490/photo-app/internal/s3util"
)

// uploadContentType is the only content type the signed PUT accepts.
const uploadContentType = "image/jpeg"

// UploadURL mints a fresh photo key and a signed upload/download URL pair.
// Nothing is persisted; the photo record only appears once analysis runs.
type UploadURL struct {
	presigner s3util.PresignAPI
	bucket    string
}

// NewUploadURL creates the upload-URL handler.
func NewUploadURL(presigner s3util.PresignAPI, bucket string) *UploadURL {
	return &UploadURL{presigner: presigner, bucket: bucket}
}

type uploadURLResponse struct {
	UploadURL   string `json:"upload_url"`
	PhotoKey    string `json:"photo_key"`
	DownloadURL string `json:"download_url"`
}

// Handle issues a photo/<uuid>.jpg key with one-hour signed URLs: a PUT
// bound to image/jpeg and a GET with a download disposition.
func (h *UploadURL) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	key := "photo/" + uuid.NewString() + ".jpg"

	uploadURL, err := s3util.PresignUpload(ctx, h.presigner, h.bucket, key, uploadContentType)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Internal("failed to sign upload URL", err)), nil
	}

	downloadURL, err := s3util.PresignDownload(ctx, h.presigner, h.bucket, key)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Internal("failed to sign download URL", err)), nil
	}

	log.Info().Str("key", key).Msg("Issued upload and download URLs")
	return apigw.Respond(200, apigw.MethodsGetPost, uploadURLResponse{
		UploadURL:   uploadURL,
		PhotoKey:    key,
		DownloadURL: downloadURL,
	}), nil
}
