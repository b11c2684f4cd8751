package webapi

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
)

// errItemNotFound marks lookups for ids the table does not hold.
var errItemNotFound = errors.New("item not found")

// Item is one entry in the deployment's key-value table.
type Item struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// dynamoAPI is the slice of the DynamoDB client the store uses,
// extracted so tests can substitute a fake.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// itemStore reads and writes items in the table. The partition key
// attribute name is configured per deployment, so attribute maps are
// assembled around it instead of through struct tags.
type itemStore struct {
	client  dynamoAPI
	table   string
	hashKey string
}

func newItemStore(client dynamoAPI, table, hashKey string) *itemStore {
	return &itemStore{client: client, table: table, hashKey: hashKey}
}

func (s *itemStore) get(ctx context.Context, id string) (Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return Item{}, errors.Wrapf(err, "get item %q", id)
	}
	if len(out.Item) == 0 {
		return Item{}, errors.Mark(errors.Newf("get item %q", id), errItemNotFound)
	}
	return s.itemFromAttributes(out.Item)
}

func (s *itemStore) put(ctx context.Context, item Item) error {
	attrs, err := s.itemToAttributes(item)
	if err != nil {
		return err
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      attrs,
	}); err != nil {
		return errors.Wrapf(err, "put item %q", item.ID)
	}
	return nil
}

func (s *itemStore) delete(ctx context.Context, id string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	}); err != nil {
		return errors.Wrapf(err, "delete item %q", id)
	}
	return nil
}

// list scans the whole table. The item tables in this project stay
// small (configuration-sized), so a full scan per request is fine.
func (s *itemStore) list(ctx context.Context) ([]Item, error) {
	var items []Item
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "scan items")
		}
		for _, attrs := range page.Items {
			item, err := s.itemFromAttributes(attrs)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	// Scans return items in arbitrary order; sort for stable responses.
	slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(a.ID, b.ID) })
	return items, nil
}

func (s *itemStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.hashKey: &types.AttributeValueMemberS{Value: id},
	}
}

func (s *itemStore) itemToAttributes(item Item) (map[string]types.AttributeValue, error) {
	dataAttr, err := attributevalue.Marshal(item.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal item %q data", item.ID)
	}
	return map[string]types.AttributeValue{
		s.hashKey:    &types.AttributeValueMemberS{Value: item.ID},
		"data":       dataAttr,
		"updated_at": &types.AttributeValueMemberS{Value: item.UpdatedAt.UTC().Format(time.RFC3339)},
	}, nil
}

func (s *itemStore) itemFromAttributes(attrs map[string]types.AttributeValue) (Item, error) {
	var item Item
	if v, ok := attrs[s.hashKey].(*types.AttributeValueMemberS); ok {
		item.ID = v.Value
	}
	if v, ok := attrs["updated_at"].(*types.AttributeValueMemberS); ok {
		ts, err := time.Parse(time.RFC3339, v.Value)
		if err != nil {
			return Item{}, errors.Wrapf(err, "parse item %q updated_at", item.ID)
		}
		item.UpdatedAt = ts
	}
	if v, ok := attrs["data"]; ok {
		if err := attributevalue.Unmarshal(v, &item.Data); err != nil {
			return Item{}, errors.Wrapf(err, "unmarshal item %q data", item.ID)
		}
	}
	return item, nil
}
