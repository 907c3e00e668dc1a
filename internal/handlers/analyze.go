package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/oussama490/photo-app/internal/apigw"
	"github.com/oussama490/photo-app/internal/imageproc"
	"github.com/oussama490/photo-app/internal/metrics"
	"github.com/oussama490/photo-app/internal/photostore"
	"github.com/oussama490/photo-app/internal/s3util"
	"github.com/oussama490/photo-app/internal/vision"
)

// normalizeWarning is the client-visible signal that the image transform was
// skipped. The underlying cause stays in the server logs.
const normalizeWarning = "image normalization failed; the original image was analyzed unmodified"

// Analyze normalizes a stored photo and persists its detected labels. It is
// reachable two ways: a direct API call carrying a JSON body with optional
// authorizer claims, and an S3 object-created notification with a list of
// records and no CORS in the response.
type Analyze struct {
	objects s3util.ObjectAPI
	labels  vision.LabelAPI
	photos  *photostore.PhotoStore
	bucket  string
}

// NewAnalyze creates the analyze handler for the given photo bucket.
func NewAnalyze(objects s3util.ObjectAPI, labels vision.LabelAPI, photos *photostore.PhotoStore, bucket string) *Analyze {
	return &Analyze{objects: objects, labels: labels, photos: photos, bucket: bucket}
}

type analyzeRequest struct {
	Photo       string `json:"photo"`
	AlbumID     string `json:"albumId"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type analyzeResponse struct {
	Message           string   `json:"message"`
	Labels            []string `json:"labels"`
	ProcessingWarning string   `json:"processingWarning,omitempty"`
}

// recordFailure is one failed record of an S3-event batch.
type recordFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

type batchSummary struct {
	Message   string          `json:"message"`
	Processed int             `json:"processed"`
	Failed    int             `json:"failed"`
	Failures  []recordFailure `json:"failures,omitempty"`
}

// Handle dispatches on the raw event shape: a Records list is an S3
// notification, anything else is treated as an API Gateway request.
func (h *Analyze) Handle(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
	var peek struct {
		Records []json.RawMessage `json:"Records"`
	}
	if err := json.Unmarshal(raw, &peek); err == nil && len(peek.Records) > 0 {
		var evt events.S3Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			return apigw.RespondError(apigw.MethodsPost, apigw.Validation("unrecognized event shape")), nil
		}
		return h.handleS3Event(ctx, evt), nil
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("unrecognized event shape")), nil
	}
	return h.handleAPI(ctx, req), nil
}

// handleAPI is the interactive path: optional caller identity, optional
// album/description/location, labels returned in the body.
func (h *Analyze) handleAPI(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body analyzeRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("invalid JSON body"))
	}
	if body.Photo == "" {
		return apigw.RespondError(apigw.MethodsPost, apigw.Validation("'photo' is required"))
	}

	userID := apigw.ClaimSub(req)
	start := time.Now()

	warning := h.normalize(ctx, h.bucket, body.Photo)

	labels, err := h.analyzeAndSave(ctx, h.bucket, body.Photo, photostore.Analysis{
		UserID:      userID,
		AlbumID:     body.AlbumID,
		Description: body.Description,
		Location:    body.Location,
	})
	if err != nil {
		return apigw.RespondError(apigw.MethodsPost, apigw.Internal("analysis failed", err))
	}

	rec := metrics.New(metrics.Namespace).
		Dimension("Trigger", "api").
		Metric("AnalyzeLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
		Metric("LabelsDetected", float64(len(labels)), metrics.UnitCount).
		Property("key", body.Photo)
	if warning != "" {
		rec.Count("NormalizeFailures")
	}
	rec.Flush()

	return apigw.Respond(200, apigw.MethodsPost, analyzeResponse{
		Message:           "analysis complete",
		Labels:            labels,
		ProcessingWarning: warning,
	})
}

// handleS3Event processes each record independently; one bad object never
// aborts the rest. The summary reports both counts and per-record errors.
// No CORS headers on this path — there is no browser caller.
func (h *Analyze) handleS3Event(ctx context.Context, evt events.S3Event) events.APIGatewayProxyResponse {
	start := time.Now()
	summary := batchSummary{Message: "batch analysis complete"}

	for _, record := range evt.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key

		h.normalize(ctx, bucket, key)
		if _, err := h.analyzeAndSave(ctx, bucket, key, photostore.Analysis{}); err != nil {
			log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Record analysis failed")
			summary.Failed++
			summary.Failures = append(summary.Failures, recordFailure{Key: key, Error: err.Error()})
			continue
		}
		summary.Processed++
	}

	metrics.New(metrics.Namespace).
		Dimension("Trigger", "s3").
		Metric("AnalyzeLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
		Metric("RecordsProcessed", float64(summary.Processed), metrics.UnitCount).
		Metric("RecordsFailed", float64(summary.Failed), metrics.UnitCount).
		Flush()

	data, err := json.Marshal(summary)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal batch summary")
		return events.APIGatewayProxyResponse{StatusCode: 500}
	}
	return events.APIGatewayProxyResponse{StatusCode: 200, Body: string(data)}
}

// normalize downloads, transforms, and rewrites the object in place.
// Best-effort: every failure is logged and reduced to a warning string so a
// corrupt image never blocks metadata persistence.
func (h *Analyze) normalize(ctx context.Context, bucket, key string) string {
	data, err := s3util.GetObjectBytes(ctx, h.objects, bucket, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Image normalization skipped: fetch failed")
		return normalizeWarning
	}

	normalized, err := imageproc.Normalize(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Image normalization skipped: transform failed")
		return normalizeWarning
	}

	if err := s3util.PutObjectBytes(ctx, h.objects, bucket, key, uploadContentType, normalized); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Image normalization skipped: rewrite failed")
		return normalizeWarning
	}
	return ""
}

// analyzeAndSave detects labels and upserts the photo record. Labels and the
// timestamp are always rewritten; the optional fields only when non-empty.
func (h *Analyze) analyzeAndSave(ctx context.Context, bucket, key string, meta photostore.Analysis) ([]string, error) {
	labels, err := vision.DetectLabels(ctx, h.labels, bucket, key)
	if err != nil {
		return nil, err
	}

	meta.Key = key
	meta.Labels = labels
	meta.UploadedAt = time.Now().UTC().Format(time.RFC3339)
	if err := h.photos.SaveAnalysis(ctx, meta); err != nil {
		return nil, err
	}

	log.Info().Str("key", key).Int("labels", len(labels)).Msg("Photo analyzed and saved")
	return labels, nil
}
