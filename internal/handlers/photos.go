package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/apigw"
	"github.com/oussama490/photo-app/internal/photostore"
	"github.com/oussama490/photo-app/internal/s3util"
)

// ListPhotos returns the caller's photo records, each enriched with a fresh
// one-hour signed download URL. URLs are never persisted.
type ListPhotos struct {
	photos    *photostore.PhotoStore
	presigner s3util.PresignAPI
	bucket    string
}

// NewListPhotos creates the photo-listing handler.
func NewListPhotos(photos *photostore.PhotoStore, presigner s3util.PresignAPI, bucket string) *ListPhotos {
	return &ListPhotos{photos: photos, presigner: presigner, bucket: bucket}
}

// photoView is the list-photos response element. AlbumID and UploadedAt are
// nullable to match what the frontend expects for unset fields.
type photoView struct {
	Photo       string   `json:"photo"`
	Labels      []string `json:"labels"`
	AlbumID     *string  `json:"albumId"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	UploadedAt  *string  `json:"uploadedAt"`
	DownloadURL string   `json:"download_url"`
	IsFavorite  bool     `json:"isFavorite"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Handle lists the caller's photos, optionally scoped to the albumId query
// parameter.
func (h *ListPhotos) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGet, err), nil
	}
	albumID := req.QueryStringParameters["albumId"]

	records, err := h.photos.ListByOwner(ctx, userID, albumID)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGet, apigw.Internal("failed to list photos", err)), nil
	}

	views := make([]photoView, 0, len(records))
	for _, rec := range records {
		downloadURL, err := s3util.PresignDownload(ctx, h.presigner, h.bucket, rec.Photo)
		if err != nil {
			return apigw.RespondError(apigw.MethodsGet, apigw.Internal("failed to sign download URL", err)), nil
		}
		labels := rec.Labels
		if labels == nil {
			labels = []string{}
		}
		views = append(views, photoView{
			Photo:       rec.Photo,
			Labels:      labels,
			AlbumID:     optional(rec.AlbumID),
			Description: rec.Description,
			Location:    rec.Location,
			UploadedAt:  optional(rec.UploadedAt),
			DownloadURL: downloadURL,
			IsFavorite:  rec.IsFavorite,
		})
	}

	log.Info().Str("userId", userID).Str("albumId", albumID).Int("photos", len(views)).Msg("Listed photos")
	return apigw.Respond(200, apigw.MethodsGet, views), nil
}

// GetLabels returns the full record for a single photo key.
type GetLabels struct {
	photos *photostore.PhotoStore
}

// NewGetLabels creates the single-record lookup handler.
func NewGetLabels(photos *photostore.PhotoStore) *GetLabels {
	return &GetLabels{photos: photos}
}

// Handle looks up the record named by the "photo" query parameter.
func (h *GetLabels) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	key := req.QueryStringParameters["photo"]
	if key == "" {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Validation("'photo' is required")), nil
	}

	rec, err := h.photos.GetPhoto(ctx, key)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.Internal("failed to read photo record", err)), nil
	}
	if rec == nil {
		return apigw.RespondError(apigw.MethodsGetPost, apigw.NotFound("photo not found")), nil
	}
	return apigw.Respond(200, apigw.MethodsGetPost, rec), nil
}

// Favorite sets the boolean favorite flag on a photo record. The owner is
// written once, on first toggle, and never overwritten afterwards.
type Favorite struct {
	photos *photostore.PhotoStore
}

// NewFavorite creates the favorite-toggle handler.
func NewFavorite(photos *photostore.PhotoStore) *Favorite {
	return &Favorite{photos: photos}
}

type favoriteRequest struct {
	Photo      string `json:"photo"`
	IsFavorite *bool  `json:"isFavorite"`
}

// Handle updates the favorite flag. An explicit false is a valid value;
// only an absent field is rejected.
func (h *Favorite) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsPost, err), nil
	}

	var body favoriteRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("invalid JSON body")), nil
	}
	if body.Photo == "" || body.IsFavorite == nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("'photo' and 'isFavorite' are required")), nil
	}

	if err := h.photos.SetFavorite(ctx, body.Photo, userID, *body.IsFavorite); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Internal("failed to update favorite", err)), nil
	}

	log.Info().Str("key", body.Photo).Bool("isFavorite", *body.IsFavorite).Msg("Favorite flag updated")
	return apigw.Respond(200, apigw.MethodsPost, map[string]interface{}{
		"message":    "favorite updated",
		"isFavorite": *body.IsFavorite,
	}), nil
}

// DeletePhoto removes a stored object and its metadata record. The two
// deletions are independent; a failure in between leaves the stores
// inconsistent and is surfaced only through logs.
type DeletePhoto struct {
	photos  *photostore.PhotoStore
	objects s3util.ObjectAPI
	bucket  string
}

// NewDeletePhoto creates the photo-delete handler.
func NewDeletePhoto(photos *photostore.PhotoStore, objects s3util.ObjectAPI, bucket string) *DeletePhoto {
	return &DeletePhoto{photos: photos, objects: objects, bucket: bucket}
}

type deletePhotoRequest struct {
	Photo string `json:"photo"`
}

// Handle deletes a photo the caller owns. A record owned by someone else
// answers 404 without revealing its existence; a key with no record at all
// still deletes idempotently.
func (h *DeletePhoto) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsDelete, err), nil
	}

	var body deletePhotoRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Validation("invalid JSON body")), nil
	}
	if body.Photo == "" {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Validation("'photo' is required")), nil
	}

	rec, err := h.photos.GetPhoto(ctx, body.Photo)
	if err != nil {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Internal("failed to read photo record", err)), nil
	}
	if rec != nil && rec.UserID != "" && rec.UserID != userID {
		return apigw.RespondError(apigw.MethodsDelete, apigw.NotFound("photo not found")), nil
	}

	if err := s3util.DeleteObject(ctx, h.objects, h.bucket, body.Photo); err != nil {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Internal("failed to delete photo object", err)), nil
	}
	if err := h.photos.DeletePhoto(ctx, body.Photo); err != nil {
		// Object is already gone; the orphaned record shows up in the
		// admin orphans audit.
		return apigw.RespondError(apigw.MethodsDelete, apigw.Internal("failed to delete photo record", err)), nil
	}

	log.Info().Str("key", body.Photo).Msg("Photo deleted")
	return apigw.Respond(200, apigw.MethodsDelete, map[string]string{"message": "photo deleted"}), nil
}
