package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const testUserID = "user-123"

// authedReq builds a request carrying Cognito claims for testUserID.
func authedReq(method, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Body:       body,
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{
				"claims": map[string]interface{}{"sub": testUserID},
			},
		},
	}
}

func anonReq(method, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: method, Body: body}
}

func decodeBody(t *testing.T, resp events.APIGatewayProxyResponse, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(resp.Body), out); err != nil {
		t.Fatalf("unmarshal response body %q: %v", resp.Body, err)
	}
}

// jpegBytes returns a small valid JPEG for the normalization path.
func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

// fakePresigner returns predictable URLs embedding the operation and key.
type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://s3.test/get/" + *params.Key}, nil
}

func (f *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://s3.test/put/" + *params.Key}, nil
}

// fakeObjects serves objects from a map and records writes and deletes.
type fakeObjects struct {
	data    map[string][]byte
	getErr  error
	putErr  error
	delErr  error
	puts    []string
	deletes []string
}

func (f *fakeObjects) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.data[*params.Key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", *params.Key)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.delErr != nil {
		return nil, f.delErr
	}
	f.deletes = append(f.deletes, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

// fakeDynamo serves canned outputs and records every write input.
type fakeDynamo struct {
	getOut    *dynamodb.GetItemOutput
	getErr    error
	scanOut   *dynamodb.ScanOutput
	scanErr   error
	updateErr error
	putErr    error
	deleteErr error

	updates []*dynamodb.UpdateItemInput
	puts    []*dynamodb.PutItemInput
	deletes []*dynamodb.DeleteItemInput
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, params)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut != nil {
		return f.getOut, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, params)
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletes = append(f.deletes, params)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if f.scanOut != nil {
		return f.scanOut, nil
	}
	return &dynamodb.ScanOutput{}, nil
}

// fakeLabels answers every detect call with a fixed label set. failFor makes
// detection fail for one specific key only.
type fakeLabels struct {
	names   []string
	err     error
	failFor string
	calls   int
}

func (f *fakeLabels) DetectLabels(_ context.Context, params *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failFor != "" && params.Image != nil && params.Image.S3Object != nil && *params.Image.S3Object.Name == f.failFor {
		return nil, fmt.Errorf("detect failed for %s", f.failFor)
	}
	out := &rekognition.DetectLabelsOutput{}
	for _, name := range f.names {
		n := name
		out.Labels = append(out.Labels, rektypes.Label{Name: &n})
	}
	return out, nil
}
