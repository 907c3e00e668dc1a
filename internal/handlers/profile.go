package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/apigw"
	"github.com/oussama490/photo-app/internal/s3util"
)

// Profile stores and serves the per-user profile photo. One object per
// user at profile_photos/<sub>.jpg, overwritten on every upload.
type Profile struct {
	objects   s3util.ObjectAPI
	presigner s3util.PresignAPI
	bucket    string
}

// NewProfile creates the profile-photo handler.
func NewProfile(objects s3util.ObjectAPI, presigner s3util.PresignAPI, bucket string) *Profile {
	return &Profile{objects: objects, presigner: presigner, bucket: bucket}
}

func profileKey(userID string) string {
	return "profile_photos/" + userID + ".jpg"
}

type profileUploadRequest struct {
	Base64 string `json:"base64"`
}

// Handle branches on method: POST uploads a base64 payload, GET mints a
// fresh signed view URL.
func (h *Profile) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodPost:
		return h.handleUpload(ctx, req), nil
	case http.MethodGet:
		return h.handleFetch(ctx, req), nil
	default:
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Validation("unsupported method")), nil
	}
}

func (h *Profile) handleUpload(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, err)
	}

	var body profileUploadRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Validation("invalid JSON body"))
	}
	if body.Base64 == "" {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Validation("no image provided"))
	}

	data, err := base64.StdEncoding.DecodeString(body.Base64)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Validation("invalid base64 payload"))
	}

	key := profileKey(userID)
	if err := s3util.PutObjectBytes(ctx, h.objects, h.bucket, key, uploadContentType, data); err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Internal("failed to store profile photo", err))
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Profile photo uploaded")
	return apigw.Respond(200, apigw.MethodsGetPost, map[string]string{"message": "profile photo uploaded"})
}

// handleFetch returns a signed URL without checking the object exists.
// A user who never uploaded gets a URL that 403s downstream.
func (h *Profile) handleFetch(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, err)
	}

	url, err := s3util.PresignView(ctx, h.presigner, h.bucket, profileKey(userID))
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Internal("failed to sign profile photo URL", err))
	}
	return apigw.Respond(200, apigw.MethodsGetPost, map[string]string{"url": url})
}
