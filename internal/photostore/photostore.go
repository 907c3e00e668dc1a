// Package photostore provides DynamoDB-backed persistence for photo metadata
// and album records.
//
// The photo table's partition key is the S3 object key ("photo"); the album
// table's is a generated UUID ("albumId"). Both stores take the narrow
// DynamoAPI interface so tests can substitute a fake client. All Get methods
// return (nil, nil) when the requested record does not exist.
package photostore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the subset of *dynamodb.Client the stores use.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// PhotoRecord is one row of the photo table, keyed by the S3 object key.
// Labels and UploadedAt are rewritten on every analysis; the optional
// fields are only ever set, never blanked, by re-analysis.
type PhotoRecord struct {
	Photo       string   `json:"photo" dynamodbav:"photo"`
	UserID      string   `json:"userId,omitempty" dynamodbav:"userId,omitempty"`
	AlbumID     string   `json:"albumId,omitempty" dynamodbav:"albumId,omitempty"`
	Description string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Location    string   `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Labels      []string `json:"labels" dynamodbav:"labels"`
	UploadedAt  string   `json:"uploadedAt" dynamodbav:"uploadedAt"`
	IsFavorite  bool     `json:"isFavorite" dynamodbav:"isFavorite,omitempty"`
}

// AlbumRecord is one row of the album table, keyed by a generated UUID.
type AlbumRecord struct {
	AlbumID string `json:"albumId" dynamodbav:"albumId"`
	UserID  string `json:"userId" dynamodbav:"userId"`
	Name    string `json:"name" dynamodbav:"name"`
}

// Analysis carries the fields the Label Analyzer persists. Key, Labels and
// UploadedAt are always written; the rest only when non-empty.
type Analysis struct {
	Key         string
	Labels      []string
	UploadedAt  string
	UserID      string
	AlbumID     string
	Description string
	Location    string
}
