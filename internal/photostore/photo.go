package photostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// PhotoStore persists PhotoRecord rows.
type PhotoStore struct {
	client    DynamoAPI
	tableName string
}

// NewPhotoStore creates a PhotoStore for the given table.
func NewPhotoStore(client DynamoAPI, tableName string) *PhotoStore {
	return &PhotoStore{client: client, tableName: tableName}
}

// TableName returns the backing table name, for startup logging.
func (s *PhotoStore) TableName() string { return s.tableName }

// photoKey builds the primary key attribute map for an object key.
func photoKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"photo": &types.AttributeValueMemberS{Value: key},
	}
}

// SaveAnalysis upserts the analysis result for a photo key. Labels and the
// upload timestamp are rewritten unconditionally; owner, album, description,
// and location are written only when present on the Analysis, so a
// re-analysis without caller context never blanks previously stored values.
func (s *PhotoStore) SaveAnalysis(ctx context.Context, a Analysis) error {
	labels, err := attributevalue.MarshalList(a.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels for %s: %w", a.Key, err)
	}

	sets := []string{"labels = :labels", "uploadedAt = :at"}
	values := map[string]types.AttributeValue{
		":labels": &types.AttributeValueMemberL{Value: labels},
		":at":     &types.AttributeValueMemberS{Value: a.UploadedAt},
	}

	optional := map[string]string{
		"userId":      a.UserID,
		"albumId":     a.AlbumID,
		"description": a.Description,
		"#loc":        a.Location,
	}
	var names map[string]string
	for attr, val := range optional {
		if val == "" {
			continue
		}
		placeholder := ":" + strings.TrimPrefix(attr, "#")
		sets = append(sets, attr+" = "+placeholder)
		values[placeholder] = &types.AttributeValueMemberS{Value: val}
		if strings.HasPrefix(attr, "#") {
			if names == nil {
				names = make(map[string]string)
			}
			names[attr] = strings.TrimPrefix(attr, "#")
		}
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       photoKey(a.Key),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
	})
	if err != nil {
		return fmt.Errorf("save analysis for %s: %w", a.Key, err)
	}

	log.Debug().
		Str("photo", a.Key).
		Int("labels", len(a.Labels)).
		Bool("hasOwner", a.UserID != "").
		Msg("Photo analysis persisted")
	return nil
}

// SetFavorite updates only the favorite flag. The owner attribute is set to
// userID when no owner exists yet; an existing owner is never overwritten.
func (s *PhotoStore) SetFavorite(ctx context.Context, key, userID string, favorite bool) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              photoKey(key),
		UpdateExpression: aws.String("SET isFavorite = :fav, userId = if_not_exists(userId, :uid)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fav": &types.AttributeValueMemberBOOL{Value: favorite},
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return fmt.Errorf("set favorite %s -> %t: %w", key, favorite, err)
	}

	log.Debug().Str("photo", key).Bool("isFavorite", favorite).Msg("Favorite flag updated")
	return nil
}

// GetPhoto retrieves a record by object key. Returns nil, nil if not found.
func (s *PhotoStore) GetPhoto(ctx context.Context, key string) (*PhotoRecord, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       photoKey(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get photo %s: %w", key, err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var record PhotoRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal photo %s: %w", key, err)
	}
	return &record, nil
}

// ListByOwner returns all photo records owned by userID, optionally filtered
// to a single album. The table has no owner index, so this is a full Scan
// with a filter expression; pagination is followed so truncated 1MB pages
// are never dropped.
func (s *PhotoStore) ListByOwner(ctx context.Context, userID, albumID string) ([]PhotoRecord, error) {
	filter := "userId = :uid"
	values := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}
	if albumID != "" {
		filter += " AND albumId = :aid"
		values[":aid"] = &types.AttributeValueMemberS{Value: albumID}
	}

	input := &dynamodb.ScanInput{
		TableName:                 &s.tableName,
		FilterExpression:          &filter,
		ExpressionAttributeValues: values,
	}

	var records []PhotoRecord
	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan photos for owner %s: %w", userID, err)
		}

		var page []PhotoRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal photo page: %w", err)
		}
		records = append(records, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	log.Debug().Str("userId", userID).Str("albumId", albumID).Int("count", len(records)).Msg("Photos listed")
	return records, nil
}

// ListAll returns every record in the photo table, following pagination.
// Used by the operator tooling, not by any request path.
func (s *PhotoStore) ListAll(ctx context.Context) ([]PhotoRecord, error) {
	input := &dynamodb.ScanInput{TableName: &s.tableName}

	var records []PhotoRecord
	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan photo table: %w", err)
		}

		var page []PhotoRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal photo page: %w", err)
		}
		records = append(records, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return records, nil
}

// DeletePhoto removes the metadata record. Deleting an absent key succeeds.
func (s *PhotoStore) DeletePhoto(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key:       photoKey(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo %s: %w", key, err)
	}
	return nil
}
