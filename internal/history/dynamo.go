package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
)

// DynamoDBAPI is the subset of the DynamoDB client the store needs.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error)
}

type dynamoItem struct {
	SearchID    string  `dynamodbav:"search_id"`
	UserID      string  `dynamodbav:"user_id"`
	CreatedAt   string  `dynamodbav:"created_at"`
	Origin      string  `dynamodbav:"origin"`
	Destination string  `dynamodbav:"destination"`
	DepartDate  string  `dynamodbav:"depart_date"`
	ReturnDate  *string `dynamodbav:"return_date,omitempty"`
	Passengers  int     `dynamodbav:"passengers"`
	TripType    string  `dynamodbav:"trip_type"`
	Filters     any     `dynamodbav:"filters,omitempty"`
	Mock        bool    `dynamodbav:"mock"`
	ResultCount int     `dynamodbav:"result_count"`
	ExpiresAt   int64   `dynamodbav:"expires_at,omitempty"`
}

type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
	retention time.Duration
}

func NewDynamoStore(client DynamoDBAPI, tableName string, retention time.Duration) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		retention: retention,
	}
}

// NewDynamoStoreFromEnv builds the client from the default AWS credential
// chain.
func NewDynamoStoreFromEnv(ctx context.Context, region, tableName string, retention time.Duration) (*DynamoStore, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewDynamoStore(dyn.NewFromConfig(cfg), tableName, retention), nil
}

func (s *DynamoStore) Record(ctx context.Context, e Entry) error {
	item := dynamoItem{
		SearchID:    e.ID,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		Origin:      e.Origin,
		Destination: e.Destination,
		DepartDate:  e.DepartDate,
		ReturnDate:  e.ReturnDate,
		Passengers:  e.Passengers,
		TripType:    e.TripType,
		Mock:        e.Mock,
		ResultCount: e.ResultCount,
	}
	if e.Filters != nil {
		item.Filters = e.Filters
	}
	if s.retention > 0 {
		item.ExpiresAt = e.CreatedAt.Add(s.retention).Unix()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal history item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(search_id)"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("put history item (%s): %w", apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("put history item: %w", err)
	}
	return nil
}

func (s *DynamoStore) Backend() string {
	return BackendDynamoDB
}

func (s *DynamoStore) Close() error {
	return nil
}
