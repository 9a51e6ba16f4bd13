package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

const (
	userOrdersIndex = "GSI1"
	// Fixed width so GSI1SK sorts chronologically.
	orderTimeLayout = "2006-01-02T15:04:05.000000000Z"
)

type OrderRepository struct {
	client    API
	tableName string
}

func NewOrderRepository(client API, tableName string) *OrderRepository {
	return &OrderRepository{
		client:    client,
		tableName: tableName,
	}
}

func orderPK(id string) string {
	return fmt.Sprintf("ORDER#%s", id)
}

func orderItem(order *domain.Order) (map[string]types.AttributeValue, error) {
	return marshalItem(orderPK(order.OrderID), order, map[string]types.AttributeValue{
		"GSI1PK": str(fmt.Sprintf("USER#%s", order.UserID)),
		"GSI1SK": str(fmt.Sprintf("ORDER#%s", order.CreatedAt.UTC().Format(orderTimeLayout))),
	})
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	item, err := orderItem(order)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condNotExists, repository.ErrAlreadyExists)
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := getItem(ctx, r.client, r.tableName, orderPK(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	item, err := orderItem(order)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condExists, repository.ErrNotFound)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.tableName, orderPK(id))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("USER#%s", userID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(userOrdersIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})

	var items []map[string]types.AttributeValue
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query user orders: %w", err)
		}
		items = append(items, page.Items...)
	}
	return unmarshalOrders(items)
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	return unmarshalOrders(items)
}

func unmarshalOrders(items []map[string]types.AttributeValue) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}
	return orders, nil
}
