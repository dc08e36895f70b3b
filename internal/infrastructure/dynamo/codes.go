package dynamo

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/medexpress/auth-api/internal/domain"
)

// CodeRepo is the durable pending-code store. PK: email, so a new issuance
// overwrites the previous code for free.
type CodeRepo struct {
	client    *dynamodb.Client
	tableName string
	ttl       time.Duration
}

func NewCodeRepo(client *dynamodb.Client, tableName string, ttl time.Duration) *CodeRepo {
	return &CodeRepo{client: client, tableName: tableName, ttl: ttl}
}

func (r *CodeRepo) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	item, err := attributevalue.MarshalMap(&domain.PendingCode{
		Email:    email,
		Code:     code,
		IssuedAt: time.Now().Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal pending code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Consume deletes the pending code with a condition on exact code match and
// freshness, so the check and the delete are one atomic DynamoDB operation.
// A failed condition reads as a plain "no", never why.
func (r *CodeRepo) Consume(ctx context.Context, email, code string) (bool, error) {
	cutoff := time.Now().Add(-r.ttl).Unix()
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("email", email),
		ConditionExpression: aws.String("code = :c AND issued_at > :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c":      &types.AttributeValueMemberS{Value: code},
			":cutoff": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", cutoff)},
		},
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
