// Package dynamo stores storefront documents in DynamoDB, one table per collection.
// Every document lives under PK "<KIND>#<id>" and SK "METADATA".
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
	pkgconfig "github.com/cloud-wave-best-zizon/storefront-service/pkg/config"
)

const metadataSK = "METADATA"

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type Tables struct {
	Products  string
	Carts     string
	Checkouts string
	Orders    string
	Users     string
}

func TablesFromConfig(cfg *pkgconfig.Config) Tables {
	return Tables{
		Products:  cfg.ProductTableName,
		Carts:     cfg.CartTableName,
		Checkouts: cfg.CheckoutTableName,
		Orders:    cfg.OrderTableName,
		Users:     cfg.UserTableName,
	}
}

func NewDynamoDBClient(ctx context.Context, cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

func New(client API, tables Tables) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(client, tables.Products),
		Carts:     NewCartRepository(client, tables.Carts),
		Checkouts: NewCheckoutRepository(client, tables.Checkouts),
		Orders:    NewOrderRepository(client, tables.Orders),
		Users:     NewUserRepository(client, tables.Users),
		Ping: func(ctx context.Context) error {
			_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tables.Products)})
			return err
		},
		Close: func(context.Context) error { return nil },
	}
}

func str(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func itemKey(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": str(pk),
		"SK": str(metadataSK),
	}
}

// marshalItem converts doc into an item under pk, merging extra attributes.
func marshalItem(pk string, doc any, extra map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	for k, v := range itemKey(pk) {
		av[k] = v
	}
	for k, v := range extra {
		av[k] = v
	}
	return av, nil
}

const (
	condNotExists = "attribute_not_exists(PK)"
	condExists    = "attribute_exists(PK)"
)

// putItem writes item under a PK existence condition. A failed condition maps to
// condErr so callers learn whether the document was missing or already present.
func putItem(ctx context.Context, client API, table string, item map[string]types.AttributeValue, cond string, condErr error) error {
	in := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}
	if cond != "" {
		in.ConditionExpression = aws.String(cond)
	}
	if _, err := client.PutItem(ctx, in); err != nil {
		if isConditionFailed(err) {
			return condErr
		}
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func getItem(ctx context.Context, client API, table, pk string, out any) error {
	res, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            itemKey(pk),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if len(res.Item) == 0 {
		return repository.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return nil
}

func deleteItem(ctx context.Context, client API, table, pk string) error {
	_, err := client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(table),
		Key:                 itemKey(pk),
		ConditionExpression: aws.String(condExists),
	})
	if err != nil {
		if isConditionFailed(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func scanAll(ctx context.Context, client API, in *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	p := dynamodb.NewScanPaginator(client, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", aws.ToString(in.TableName), err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
