package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

// UserRepository keeps each user under USER#<id> plus an EMAIL#<email> pointer item
// written in the same transaction, which makes the email unique.
type UserRepository struct {
	client    API
	tableName string
}

func NewUserRepository(client API, tableName string) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
	}
}

func userPK(id string) string {
	return fmt.Sprintf("USER#%s", id)
}

func emailPK(email string) string {
	return fmt.Sprintf("EMAIL#%s", strings.ToLower(email))
}

type emailPointer struct {
	UserID string `dynamodbav:"user_id"`
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	userItem, err := marshalItem(userPK(u.ID), u, nil)
	if err != nil {
		return err
	}
	pointerItem, err := marshalItem(emailPK(u.Email), emailPointer{UserID: u.ID}, nil)
	if err != nil {
		return err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                userItem,
				ConditionExpression: aws.String(condNotExists),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                pointerItem,
				ConditionExpression: aws.String(condNotExists),
			}},
		},
	})
	if err != nil {
		if isTransactionConditionFailed(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := getItem(ctx, r.client, r.tableName, userPK(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var ptr emailPointer
	if err := getItem(ctx, r.client, r.tableName, emailPK(email), &ptr); err != nil {
		return nil, err
	}
	return r.Get(ctx, ptr.UserID)
}

// Update rewrites the user document. The email is immutable, so the pointer item stays valid.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	item, err := marshalItem(userPK(u.ID), u, nil)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condExists, repository.ErrNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	u, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{TableName: aws.String(r.tableName), Key: itemKey(userPK(u.ID))}},
			{Delete: &types.Delete{TableName: aws.String(r.tableName), Key: itemKey(emailPK(u.Email))}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("PK").BeginsWith("USER#")).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build user filter: %w", err)
	}
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}

func isTransactionConditionFailed(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}
