package photostore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// AlbumStore persists AlbumRecord rows.
type AlbumStore struct {
	client    DynamoAPI
	tableName string
}

// NewAlbumStore creates an AlbumStore for the given table.
func NewAlbumStore(client DynamoAPI, tableName string) *AlbumStore {
	return &AlbumStore{client: client, tableName: tableName}
}

// TableName returns the backing table name, for startup logging.
func (s *AlbumStore) TableName() string { return s.tableName }

func albumKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"albumId": &types.AttributeValueMemberS{Value: id},
	}
}

// PutAlbum creates or replaces an album record.
func (s *AlbumStore) PutAlbum(ctx context.Context, album *AlbumRecord) error {
	item, err := attributevalue.MarshalMap(album)
	if err != nil {
		return fmt.Errorf("marshal album %s: %w", album.AlbumID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put album %s: %w", album.AlbumID, err)
	}

	log.Debug().Str("albumId", album.AlbumID).Str("name", album.Name).Msg("Album persisted")
	return nil
}

// GetAlbum retrieves an album by id. Returns nil, nil if not found.
func (s *AlbumStore) GetAlbum(ctx context.Context, id string) (*AlbumRecord, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       albumKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get album %s: %w", id, err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var record AlbumRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal album %s: %w", id, err)
	}
	return &record, nil
}

// ListByOwner returns all albums owned by userID. No owner index exists, so
// this is a paginated Scan with an equality filter, same as the photo table.
func (s *AlbumStore) ListByOwner(ctx context.Context, userID string) ([]AlbumRecord, error) {
	input := &dynamodb.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	}

	var records []AlbumRecord
	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan albums for owner %s: %w", userID, err)
		}

		var page []AlbumRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal album page: %w", err)
		}
		records = append(records, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	log.Debug().Str("userId", userID).Int("count", len(records)).Msg("Albums listed")
	return records, nil
}

// DeleteAlbum removes an album record. Deleting an absent id succeeds.
// Photos referencing the album keep their albumId; there is no cascade.
func (s *AlbumStore) DeleteAlbum(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key:       albumKey(id),
	})
	if err != nil {
		return fmt.Errorf("delete album %s: %w", id, err)
	}
	return nil
}
