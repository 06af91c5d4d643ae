// Package dynamo implements the user store on DynamoDB. The table is
// keyed by email with a secondary index on itemType for full listings.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/userdir/userdir-server/internal/model"
)

// Internal adapter interface to enable mocking without a real DynamoDB
// endpoint. *dynamodb.Client satisfies it as is.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ model.Store = (*Store)(nil)

type Store struct {
	api   dynamoAPI
	table string
}

// New creates a Store backed by the given DynamoDB client and table.
func New(client *dynamodb.Client, table string) *Store {
	return NewWithAPI(client, table)
}

// NewWithAPI creates a Store from any dynamoAPI implementation.
func NewWithAPI(api dynamoAPI, table string) *Store {
	return &Store{api: api, table: table}
}

const conditionKeyExists = "attribute_exists(email)"

func (s *Store) Get(ctx context.Context, key model.Key) (model.User, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       marshalKey(key),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get item: %w", err)
	}
	if out.Item == nil {
		return model.User{}, model.ErrNotFound
	}

	var user model.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return model.User{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return user, nil
}

func (s *Store) Put(ctx context.Context, user model.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func (s *Store) PutExisting(ctx context.Context, user model.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String(conditionKeyExists),
	})
	if err != nil {
		if isConditionFailure(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to put existing item: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key model.Key) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 marshalKey(key),
		ConditionExpression: aws.String(conditionKeyExists),
	})
	if err != nil {
		if isConditionFailure(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, in model.ScanInput) (model.ScanOutput, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": in.KeyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: in.KeyValue},
		},
	}
	if in.IndexName != "" {
		input.IndexName = aws.String(in.IndexName)
	}
	if in.Limit > 0 {
		input.Limit = aws.Int32(in.Limit)
	}
	if len(in.StartAfter) > 0 {
		input.ExclusiveStartKey = marshalKey(in.StartAfter)
	}
	if len(in.Projection) > 0 {
		// Attribute names go through placeholders so reserved words in
		// the projection cannot break the expression.
		parts := make([]string, len(in.Projection))
		for i, attr := range in.Projection {
			name := fmt.Sprintf("#p%d", i)
			input.ExpressionAttributeNames[name] = attr
			parts[i] = name
		}
		input.ProjectionExpression = aws.String(strings.Join(parts, ", "))
	}

	out, err := s.api.Query(ctx, input)
	if err != nil {
		return model.ScanOutput{}, fmt.Errorf("failed to query table: %w", err)
	}

	result := model.ScanOutput{}
	if len(out.Items) > 0 {
		result.Items = make([]model.User, 0, len(out.Items))
		for _, item := range out.Items {
			var user model.User
			if err := attributevalue.UnmarshalMap(item, &user); err != nil {
				return model.ScanOutput{}, fmt.Errorf("failed to unmarshal item: %w", err)
			}
			result.Items = append(result.Items, user)
		}
	}
	if len(out.LastEvaluatedKey) > 0 {
		result.NextKey = unmarshalKey(out.LastEvaluatedKey)
	}

	return result, nil
}

func (s *Store) BatchPut(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	if len(users) > model.BatchPutLimit {
		return fmt.Errorf("batch of %d exceeds limit of %d", len(users), model.BatchPutLimit)
	}

	requests := make([]types.WriteRequest, 0, len(users))
	for _, u := range users {
		item, err := attributevalue.MarshalMap(u)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	out, err := s.api.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{s.table: requests},
	})
	if err != nil {
		return fmt.Errorf("failed to batch write: %w", err)
	}
	if unprocessed := len(out.UnprocessedItems[s.table]); unprocessed > 0 {
		return fmt.Errorf("batch write left %d items unprocessed", unprocessed)
	}
	return nil
}

func marshalKey(key model.Key) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(key))
	for name, value := range key {
		out[name] = &types.AttributeValueMemberS{Value: value}
	}
	return out
}

func unmarshalKey(attrs map[string]types.AttributeValue) model.Key {
	key := make(model.Key, len(attrs))
	for name, attr := range attrs {
		if s, ok := attr.(*types.AttributeValueMemberS); ok {
			key[name] = s.Value
		}
	}
	return key
}

func isConditionFailure(err error) bool {
	var cond *types.ConditionalCheckFailedException
	return errors.As(err, &cond)
}
