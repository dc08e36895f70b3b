package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/medexpress/auth-api/internal/domain"
)

// RefreshRepo is the durable refresh-token registry. PK: token_id.
type RefreshRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRefreshRepo(client *dynamodb.Client, tableName string) *RefreshRepo {
	return &RefreshRepo{client: client, tableName: tableName}
}

func (r *RefreshRepo) Put(ctx context.Context, rec *domain.RefreshRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal refresh record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Consume deletes the record conditioned on its existence and returns the
// old item. Two racing refreshes for the same token ID settle inside
// DynamoDB: one gets the record, the other a failed condition, surfaced as
// ErrNotFound.
func (r *RefreshRepo) Consume(ctx context.Context, tokenID string) (*domain.RefreshRecord, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("token_id", tokenID),
		ConditionExpression: aws.String("attribute_exists(token_id)"),
		ReturnValues:        types.ReturnValueAllOld,
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("refresh record %s: %w", tokenID, domain.ErrNotFound)
		}
		return nil, err
	}
	var rec domain.RefreshRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal refresh record: %w", err)
	}
	return &rec, nil
}

func (r *RefreshRepo) Delete(ctx context.Context, tokenID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token_id", tokenID),
	})
	return err
}
