package dynamo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is a single-table DynamoDB stand-in that honors the PK existence
// conditions the repositories use. Scan ignores filter expressions.
type fakeAPI struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	order []string
	scans []*dynamodb.ScanInput
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string]map[string]types.AttributeValue)}
}

func pkOf(item map[string]types.AttributeValue) string {
	return item["PK"].(*types.AttributeValueMemberS).Value
}

func (f *fakeAPI) checkCond(pk string, cond *string) bool {
	_, exists := f.items[pk]
	switch aws.ToString(cond) {
	case condNotExists:
		return !exists
	case condExists:
		return exists
	}
	return true
}

func (f *fakeAPI) put(item map[string]types.AttributeValue) {
	pk := pkOf(item)
	if _, ok := f.items[pk]; !ok {
		f.order = append(f.order, pk)
	}
	f.items[pk] = item
}

func (f *fakeAPI) del(pk string) {
	delete(f.items, pk)
	for i, v := range f.order {
		if v == pk {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[pkOf(in.Key)]}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.checkCond(pkOf(in.Item), in.ConditionExpression) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
	}
	f.put(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk := pkOf(in.Key)
	if !f.checkCond(pk, in.ConditionExpression) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
	}
	f.del(pk)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans = append(f.scans, in)
	out := &dynamodb.ScanOutput{}
	for _, pk := range f.order {
		if beginsWithMismatch(in, f.items[pk]) {
			continue
		}
		out.Items = append(out.Items, f.items[pk])
	}
	return out, nil
}

// beginsWithMismatch evaluates the single "begins_with (#0, :0)" filter form; any
// other filter expression is ignored.
func beginsWithMismatch(in *dynamodb.ScanInput, item map[string]types.AttributeValue) bool {
	if !strings.HasPrefix(aws.ToString(in.FilterExpression), "begins_with") {
		return false
	}
	attr, ok := item[in.ExpressionAttributeNames["#0"]].(*types.AttributeValueMemberS)
	if !ok {
		return true
	}
	prefix := in.ExpressionAttributeValues[":0"].(*types.AttributeValueMemberS).Value
	return !strings.HasPrefix(attr.Value, prefix)
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var want string
	for _, v := range in.ExpressionAttributeValues {
		want = v.(*types.AttributeValueMemberS).Value
	}
	var matched []map[string]types.AttributeValue
	for _, pk := range f.order {
		item := f.items[pk]
		if gsi, ok := item["GSI1PK"].(*types.AttributeValueMemberS); ok && gsi.Value == want {
			matched = append(matched, item)
		}
	}
	sk := func(i int) string { return matched[i]["GSI1SK"].(*types.AttributeValueMemberS).Value }
	sort.SliceStable(matched, func(i, j int) bool {
		if aws.ToBool(in.ScanIndexForward) {
			return sk(i) < sk(j)
		}
		return sk(i) > sk(j)
	})
	return &dynamodb.QueryOutput{Items: matched}, nil
}

func (f *fakeAPI) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, ti := range in.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		if ti.Put != nil && !f.checkCond(pkOf(ti.Put.Item), ti.Put.ConditionExpression) {
			reasons[i].Code = aws.String("ConditionalCheckFailed")
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{Message: aws.String("cancelled"), CancellationReasons: reasons}
	}
	for _, ti := range in.TransactItems {
		switch {
		case ti.Put != nil:
			f.put(ti.Put.Item)
		case ti.Delete != nil:
			f.del(pkOf(ti.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName}}, nil
}
