package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

type ProductRepository struct {
	client    API
	tableName string
}

func NewProductRepository(client API, tableName string) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
	}
}

func productPK(id string) string {
	return fmt.Sprintf("PRODUCT#%s", id)
}

// productItem adds lowercase shadows of name and description; DynamoDB has no
// case-insensitive contains, so search runs against these.
func productItem(p *domain.Product) (map[string]types.AttributeValue, error) {
	return marshalItem(productPK(p.ID), p, map[string]types.AttributeValue{
		"name_lc":        str(strings.ToLower(p.Name)),
		"description_lc": str(strings.ToLower(p.Description)),
	})
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	item, err := productItem(p)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condNotExists, repository.ErrAlreadyExists)
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := getItem(ctx, r.client, r.tableName, productPK(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	item, err := productItem(p)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condExists, repository.ErrNotFound)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.tableName, productPK(id))
}

// Find pushes the filter down as a scan filter expression. DynamoDB scans have
// no ordering, so sort and limit run in process over the filtered pages.
func (r *ProductRepository) Find(ctx context.Context, q catalog.Query) ([]domain.Product, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}

	expr, err := filterExpression(q.Filter)
	if err != nil {
		return nil, err
	}
	if expr != nil {
		in.FilterExpression = expr.Filter()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	items, err := scanAll(ctx, r.client, in)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	catalog.Sort(products, q.Sort)
	return catalog.Limit(products, q.Limit), nil
}

// filterExpression translates a catalog filter; it returns nil when nothing is restricted.
func filterExpression(f catalog.Filter) (*expression.Expression, error) {
	var conds []expression.ConditionBuilder

	eq := func(attr, v string) {
		if v != "" {
			conds = append(conds, expression.Name(attr).Equal(expression.Value(v)))
		}
	}
	eq("collections", f.Collection)
	eq("category", f.Category)
	eq("gender", f.Gender)
	eq("material", f.Material)

	if len(f.Brands) > 0 {
		conds = append(conds, oneOf("brand", f.Brands))
	}
	if len(f.Sizes) > 0 {
		conds = append(conds, anyElement("sizes", f.Sizes))
	}
	if len(f.Colors) > 0 {
		conds = append(conds, anyElement("colors", f.Colors))
	}

	price := expression.Name("price")
	switch {
	case f.MinPrice != nil && f.MaxPrice != nil:
		conds = append(conds, price.Between(expression.Value(*f.MinPrice), expression.Value(*f.MaxPrice)))
	case f.MinPrice != nil:
		conds = append(conds, price.GreaterThanEqual(expression.Value(*f.MinPrice)))
	case f.MaxPrice != nil:
		conds = append(conds, price.LessThanEqual(expression.Value(*f.MaxPrice)))
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		conds = append(conds, expression.Or(
			expression.Name("name_lc").Contains(needle),
			expression.Name("description_lc").Contains(needle),
		))
	}
	if f.ExcludeID != "" {
		conds = append(conds, expression.Name("id").NotEqual(expression.Value(f.ExcludeID)))
	}

	if len(conds) == 0 {
		return nil, nil
	}
	cond := conds[0]
	if len(conds) > 1 {
		cond = expression.And(conds[0], conds[1], conds[2:]...)
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build product filter: %w", err)
	}
	return &expr, nil
}

func oneOf(attr string, values []string) expression.ConditionBuilder {
	operands := make([]expression.OperandBuilder, len(values))
	for i, v := range values {
		operands[i] = expression.Value(v)
	}
	return expression.Name(attr).In(operands[0], operands[1:]...)
}

// anyElement matches when the list attribute holds at least one of values.
func anyElement(attr string, values []string) expression.ConditionBuilder {
	if len(values) == 1 {
		return expression.Name(attr).Contains(values[0])
	}
	conds := make([]expression.ConditionBuilder, len(values))
	for i, v := range values {
		conds[i] = expression.Name(attr).Contains(v)
	}
	return expression.Or(conds[0], conds[1], conds[2:]...)
}
