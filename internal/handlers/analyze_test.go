package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/oussama490/photo-app/internal/photostore"
)

func newAnalyzeFixture(t *testing.T, objects *fakeObjects, labels *fakeLabels) (*Analyze, *fakeDynamo) {
	t.Helper()
	dyn := &fakeDynamo{}
	photos := photostore.NewPhotoStore(dyn, "photos-table")
	return NewAnalyze(objects, labels, photos, "photo-bucket"), dyn
}

func apiEvent(t *testing.T, body string, authed bool) json.RawMessage {
	t.Helper()
	req := anonReq("POST", body)
	if authed {
		req = authedReq("POST", body)
	}
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return raw
}

func s3Event(t *testing.T, keys ...string) json.RawMessage {
	t.Helper()
	records := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		records = append(records, map[string]interface{}{
			"s3": map[string]interface{}{
				"bucket": map[string]string{"name": "photo-bucket"},
				"object": map[string]string{"key": key},
			},
		})
	}
	raw, err := json.Marshal(map[string]interface{}{"Records": records})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return raw
}

func TestAnalyzeAPIPath(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{"photo/a.jpg": jpegBytes(t)}}
	labels := &fakeLabels{names: []string{"Dog", "Beach"}}
	h, dyn := newAnalyzeFixture(t, objects, labels)

	body := `{"photo":"photo/a.jpg","albumId":"alb-1","description":"plage","location":"Nice"}`
	resp, err := h.Handle(context.Background(), apiEvent(t, body, true))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out analyzeResponse
	decodeBody(t, resp, &out)
	if len(out.Labels) != 2 || out.Labels[0] != "Dog" {
		t.Errorf("labels = %v, want [Dog Beach]", out.Labels)
	}
	if out.ProcessingWarning != "" {
		t.Errorf("unexpected processing warning %q", out.ProcessingWarning)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Error("API path response missing CORS headers")
	}

	// Normalized bytes were written back to the same key.
	if len(objects.puts) != 1 || objects.puts[0] != "photo/a.jpg" {
		t.Errorf("normalized object writes = %v", objects.puts)
	}

	// The record upsert carries the caller and the optional fields.
	if len(dyn.updates) != 1 {
		t.Fatalf("expected one UpdateItem, got %d", len(dyn.updates))
	}
	values := dyn.updates[0].ExpressionAttributeValues
	if got := values[":userId"].(*types.AttributeValueMemberS).Value; got != testUserID {
		t.Errorf("persisted userId = %q, want %q", got, testUserID)
	}
	if got := values[":description"].(*types.AttributeValueMemberS).Value; got != "plage" {
		t.Errorf("persisted description = %q", got)
	}
}

func TestAnalyzeCorruptImageStillPersists(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{"photo/bad.jpg": []byte("not an image")}}
	labels := &fakeLabels{names: []string{"Cat"}}
	h, dyn := newAnalyzeFixture(t, objects, labels)

	resp, err := h.Handle(context.Background(), apiEvent(t, `{"photo":"photo/bad.jpg"}`, false))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200 despite normalization failure", resp.StatusCode)
	}

	var out analyzeResponse
	decodeBody(t, resp, &out)
	if out.ProcessingWarning == "" {
		t.Error("expected a processingWarning for the corrupt image")
	}
	if len(dyn.updates) != 1 {
		t.Errorf("analysis was not persisted: %d updates", len(dyn.updates))
	}
	if len(objects.puts) != 0 {
		t.Errorf("corrupt image must not be rewritten, got puts %v", objects.puts)
	}
}

func TestAnalyzeMissingPhotoField(t *testing.T) {
	h, dyn := newAnalyzeFixture(t, &fakeObjects{}, &fakeLabels{})
	resp, err := h.Handle(context.Background(), apiEvent(t, `{}`, true))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(dyn.updates) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}

func TestAnalyzeDetectFailure(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{"photo/a.jpg": jpegBytes(t)}}
	h, _ := newAnalyzeFixture(t, objects, &fakeLabels{err: context.DeadlineExceeded})

	resp, err := h.Handle(context.Background(), apiEvent(t, `{"photo":"photo/a.jpg"}`, true))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestAnalyzeS3EventPartialSuccess(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"photo/ok.jpg":  jpegBytes(t),
		"photo/bad.jpg": jpegBytes(t),
	}}
	labels := &fakeLabels{names: []string{"Tree"}, failFor: "photo/bad.jpg"}
	h, dyn := newAnalyzeFixture(t, objects, labels)

	resp, err := h.Handle(context.Background(), s3Event(t, "photo/ok.jpg", "photo/bad.jpg"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(resp.Headers) != 0 {
		t.Errorf("S3-event path must not carry CORS headers, got %v", resp.Headers)
	}

	var summary batchSummary
	decodeBody(t, resp, &summary)
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want processed 1 failed 1", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Key != "photo/bad.jpg" {
		t.Errorf("failures = %+v", summary.Failures)
	}

	// The failed record never blocked persistence of the good one.
	if len(dyn.updates) != 1 {
		t.Errorf("expected exactly one persisted record, got %d", len(dyn.updates))
	}
}

func TestAnalyzeS3EventNeverSetsOwner(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{"photo/evt.jpg": jpegBytes(t)}}
	h, dyn := newAnalyzeFixture(t, objects, &fakeLabels{names: []string{"Sky"}})

	if _, err := h.Handle(context.Background(), s3Event(t, "photo/evt.jpg")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(dyn.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(dyn.updates))
	}
	if _, ok := dyn.updates[0].ExpressionAttributeValues[":userId"]; ok {
		t.Error("S3-event path must never write an owner")
	}
}
