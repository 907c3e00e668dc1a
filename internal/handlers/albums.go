package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/apigw"
	"github.com/oussama490/photo-app/internal/photostore"
)

// Albums covers the album CRUD operations. Create and list are scoped to
// the caller; delete checks ownership first. Deleting an album never
// cascades to the photos that reference it.
type Albums struct {
	albums *photostore.AlbumStore
}

// NewAlbums creates the album handler.
func NewAlbums(albums *photostore.AlbumStore) *Albums {
	return &Albums{albums: albums}
}

type createAlbumRequest struct {
	Name string `json:"name"`
}

// HandleCreate persists a new album under a generated id and returns it.
func (h *Albums) HandleCreate(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsPost, err), nil
	}

	var body createAlbumRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("invalid JSON body")), nil
	}
	if body.Name == "" {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("album name is required")), nil
	}

	album := &photostore.AlbumRecord{
		AlbumID: uuid.NewString(),
		UserID:  userID,
		Name:    body.Name,
	}
	if err := h.albums.PutAlbum(ctx, album); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Internal("failed to create album", err)), nil
	}

	log.Info().Str("albumId", album.AlbumID).Str("name", album.Name).Msg("Album created")
	return apigw.Respond(201, apigw.MethodsPost, map[string]string{
		"message": "album created",
		"albumId": album.AlbumID,
	}), nil
}

// HandleList returns every album owned by the caller.
func (h *Albums) HandleList(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGet, err), nil
	}

	records, err := h.albums.ListByOwner(ctx, userID)
	if err != nil {
		return apigw.RespondError(apigw.MethodsGet, apigw.Internal("failed to list albums", err)), nil
	}
	if records == nil {
		records = []photostore.AlbumRecord{}
	}

	log.Info().Str("userId", userID).Int("albums", len(records)).Msg("Listed albums")
	return apigw.Respond(200, apigw.MethodsGet, map[string]interface{}{"albums": records}), nil
}

// HandleDelete removes an album by the albumId path parameter. A missing
// record still answers success; a foreign record answers 404.
func (h *Albums) HandleDelete(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := apigw.UserID(req)
	if err != nil {
		return apigw.RespondError(apigw.MethodsDelete, err), nil
	}

	albumID := req.PathParameters["albumId"]
	if albumID == "" {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Validation("'albumId' is required")), nil
	}

	rec, err := h.albums.GetAlbum(ctx, albumID)
	if err != nil {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Internal("failed to read album record", err)), nil
	}
	if rec != nil && rec.UserID != userID {
		return apigw.RespondError(apigw.MethodsDelete, apigw.NotFound("album not found")), nil
	}

	if err := h.albums.DeleteAlbum(ctx, albumID); err != nil {
		return apigw.RespondError(apigw.MethodsDelete, apigw.Internal("failed to delete album", err)), nil
	}

	log.Info().Str("albumId", albumID).Msg("Album deleted")
	return apigw.Respond(200, apigw.MethodsDelete, map[string]string{"message": "album deleted"}), nil
}
