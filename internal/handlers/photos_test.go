package handlers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/oussama490/photo-app/internal/photostore"
)

func photoItem(key, owner string) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"photo":      &types.AttributeValueMemberS{Value: key},
		"labels":     &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: "Dog"}}},
		"uploadedAt": &types.AttributeValueMemberS{Value: "2026-08-30T12:00:00Z"},
		"isFavorite": &types.AttributeValueMemberBOOL{Value: true},
	}
	if owner != "" {
		item["userId"] = &types.AttributeValueMemberS{Value: owner}
	}
	return item
}

func TestListPhotosRequiresAuth(t *testing.T) {
	h := NewListPhotos(photostore.NewPhotoStore(&fakeDynamo{}, "photos"), &fakePresigner{}, "bucket")
	resp, err := h.Handle(context.Background(), anonReq("GET", ""))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestListPhotosEnrichesWithDownloadURL(t *testing.T) {
	dyn := &fakeDynamo{scanOut: &dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{photoItem("photo/a.jpg", testUserID)},
	}}
	h := NewListPhotos(photostore.NewPhotoStore(dyn, "photos"), &fakePresigner{}, "bucket")

	resp, err := h.Handle(context.Background(), authedReq("GET", ""))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var views []photoView
	decodeBody(t, resp, &views)
	if len(views) != 1 {
		t.Fatalf("got %d photos, want 1", len(views))
	}
	if views[0].DownloadURL != "https://s3.test/get/photo/a.jpg" {
		t.Errorf("download_url = %q", views[0].DownloadURL)
	}
	if views[0].AlbumID != nil {
		t.Errorf("albumId = %v, want null", *views[0].AlbumID)
	}
	if !views[0].IsFavorite {
		t.Error("isFavorite lost in translation")
	}
}

func TestListPhotosEmptyIsArray(t *testing.T) {
	h := NewListPhotos(photostore.NewPhotoStore(&fakeDynamo{}, "photos"), &fakePresigner{}, "bucket")
	resp, err := h.Handle(context.Background(), authedReq("GET", ""))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Body != "[]" {
		t.Errorf("empty listing body = %q, want []", resp.Body)
	}
}

func TestGetLabelsLookup(t *testing.T) {
	t.Run("missing param", func(t *testing.T) {
		h := NewGetLabels(photostore.NewPhotoStore(&fakeDynamo{}, "photos"))
		resp, _ := h.Handle(context.Background(), anonReq("GET", ""))
		if resp.StatusCode != 400 {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("not found", func(t *testing.T) {
		h := NewGetLabels(photostore.NewPhotoStore(&fakeDynamo{}, "photos"))
		req := anonReq("GET", "")
		req.QueryStringParameters = map[string]string{"photo": "photo/missing.jpg"}
		resp, _ := h.Handle(context.Background(), req)
		if resp.StatusCode != 404 {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("found", func(t *testing.T) {
		dyn := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: photoItem("photo/a.jpg", testUserID)}}
		h := NewGetLabels(photostore.NewPhotoStore(dyn, "photos"))
		req := anonReq("GET", "")
		req.QueryStringParameters = map[string]string{"photo": "photo/a.jpg"}
		resp, _ := h.Handle(context.Background(), req)
		if resp.StatusCode != 200 {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var rec photostore.PhotoRecord
		decodeBody(t, resp, &rec)
		if rec.Photo != "photo/a.jpg" || len(rec.Labels) != 1 {
			t.Errorf("record = %+v", rec)
		}
	})
}

func TestFavoriteValidation(t *testing.T) {
	cases := []struct {
		name string
		req  func() (r string, authed bool)
		want int
	}{
		{"unauthenticated", func() (string, bool) { return `{"photo":"p","isFavorite":true}`, false }, 401},
		{"missing photo", func() (string, bool) { return `{"isFavorite":true}`, true }, 400},
		{"missing flag", func() (string, bool) { return `{"photo":"p"}`, true }, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewFavorite(photostore.NewPhotoStore(&fakeDynamo{}, "photos"))
			body, authed := tc.req()
			req := anonReq("POST", body)
			if authed {
				req = authedReq("POST", body)
			}
			resp, err := h.Handle(context.Background(), req)
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestFavoriteExplicitFalse(t *testing.T) {
	dyn := &fakeDynamo{}
	h := NewFavorite(photostore.NewPhotoStore(dyn, "photos"))

	resp, err := h.Handle(context.Background(), authedReq("POST", `{"photo":"photo/a.jpg","isFavorite":false}`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out struct {
		IsFavorite bool `json:"isFavorite"`
	}
	decodeBody(t, resp, &out)
	if out.IsFavorite {
		t.Error("response echoed true for an explicit false")
	}
	if len(dyn.updates) != 1 {
		t.Fatalf("expected one UpdateItem, got %d", len(dyn.updates))
	}
	fav := dyn.updates[0].ExpressionAttributeValues[":fav"].(*types.AttributeValueMemberBOOL)
	if fav.Value {
		t.Error("persisted flag = true, want false")
	}
}

func TestDeletePhotoOwnership(t *testing.T) {
	t.Run("foreign record answers 404", func(t *testing.T) {
		dyn := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: photoItem("photo/x.jpg", "someone-else")}}
		objects := &fakeObjects{}
		h := NewDeletePhoto(photostore.NewPhotoStore(dyn, "photos"), objects, "bucket")

		resp, err := h.Handle(context.Background(), authedReq("DELETE", `{"photo":"photo/x.jpg"}`))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if resp.StatusCode != 404 {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
		if len(objects.deletes) != 0 || len(dyn.deletes) != 0 {
			t.Error("foreign record must not be deleted")
		}
	})

	t.Run("missing record deletes idempotently", func(t *testing.T) {
		dyn := &fakeDynamo{}
		objects := &fakeObjects{}
		h := NewDeletePhoto(photostore.NewPhotoStore(dyn, "photos"), objects, "bucket")

		resp, err := h.Handle(context.Background(), authedReq("DELETE", `{"photo":"photo/gone.jpg"}`))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if len(objects.deletes) != 1 || len(dyn.deletes) != 1 {
			t.Errorf("deletes = s3:%d dynamo:%d, want 1/1", len(objects.deletes), len(dyn.deletes))
		}
	})

	t.Run("owned record is deleted", func(t *testing.T) {
		dyn := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: photoItem("photo/mine.jpg", testUserID)}}
		objects := &fakeObjects{}
		h := NewDeletePhoto(photostore.NewPhotoStore(dyn, "photos"), objects, "bucket")

		resp, err := h.Handle(context.Background(), authedReq("DELETE", `{"photo":"photo/mine.jpg"}`))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
		}
		if objects.deletes[0] != "photo/mine.jpg" {
			t.Errorf("deleted object = %q", objects.deletes[0])
		}
	})
}

func TestDeletePhotoMissingKey(t *testing.T) {
	h := NewDeletePhoto(photostore.NewPhotoStore(&fakeDynamo{}, "photos"), &fakeObjects{}, "bucket")
	resp, _ := h.Handle(context.Background(), authedReq("DELETE", `{}`))
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
