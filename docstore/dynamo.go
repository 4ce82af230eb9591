package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DynamoDBClient interface para abstrair o cliente DynamoDB
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoStore guarda cada documento como um item cuja chave de partição é
// "_id" (string hex do ObjectID). Busca aproximada, ordenação e projeção
// negativa não existem no DynamoDB e são aplicadas após o Scan.
type dynamoStore struct {
	client DynamoDBClient
	table  string
}

// NewDynamoStore cria um Store sobre uma tabela com chave de partição "_id" (S)
func NewDynamoStore(client DynamoDBClient, table string) Store {
	return &dynamoStore{client: client, table: table}
}

func (s *dynamoStore) Find() *QueryBuilder {
	return NewQueryBuilder(s.find)
}

func (s *dynamoStore) find(ctx context.Context, q Query) ([]Document, error) {
	var items []map[string]types.AttributeValue

	if q.ID != nil {
		out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(s.table),
			Key:            dynamoKey(*q.ID),
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("docstore: find failed: %w", err)
		}
		if out.Item != nil {
			items = append(items, out.Item)
		}
	} else {
		scanned, err := s.scanAll(ctx)
		if err != nil {
			return nil, err
		}
		items = scanned
	}

	result := make([]Document, 0, len(items))
	for _, item := range items {
		doc, err := decodeItem(item)
		if err != nil {
			return nil, fmt.Errorf("docstore: unmarshal failed: %w", err)
		}
		if q.Contains != nil && !containsFold(doc[q.Contains.Field], q.Contains.Substring) {
			continue
		}
		for _, f := range q.Exclude {
			delete(doc, f)
		}
		result = append(result, doc)
	}

	sortDocuments(result, q.SortBy)
	return result, nil
}

// scanAll percorre todas as páginas do Scan
func (s *dynamoStore) scanAll(ctx context.Context) ([]map[string]types.AttributeValue, error) {
	var (
		items   []map[string]types.AttributeValue
		lastKey map[string]types.AttributeValue
	)
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("docstore: find failed: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		lastKey = out.LastEvaluatedKey
	}
}

func (s *dynamoStore) InsertOne(ctx context.Context, doc Document) (*InsertResult, error) {
	id := bson.NewObjectID()

	item, err := attributevalue.MarshalMap(map[string]interface{}(withoutID(doc)))
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal failed: %w", err)
	}
	item[IDField] = &types.AttributeValueMemberS{Value: id.Hex()}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(IDField))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("docstore: insert failed: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		return nil, fmt.Errorf("docstore: insert failed: %w", err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *dynamoStore) UpdateOne(ctx context.Context, id bson.ObjectID, set Document) (*UpdateResult, error) {
	set = withoutID(set)
	if len(set) == 0 {
		return nil, fmt.Errorf("docstore: update failed: %w", errEmptySet)
	}

	fields := make([]string, 0, len(set))
	for k := range set {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	update := expression.Set(expression.Name(fields[0]), expression.Value(set[fields[0]]))
	for _, k := range fields[1:] {
		update = update.Set(expression.Name(k), expression.Value(set[k]))
	}
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(IDField))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("docstore: update failed: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       dynamoKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllOld,
	})
	res := &UpdateResult{Acknowledged: true}
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return res, nil
		}
		return nil, fmt.Errorf("docstore: update failed: %w", err)
	}
	res.MatchedCount = 1

	old, err := decodeItem(out.Attributes)
	if err != nil {
		return nil, fmt.Errorf("docstore: unmarshal failed: %w", err)
	}
	for k, v := range set {
		if current, exists := old[k]; !exists || !sameValue(current, normalizeValue(v)) {
			res.ModifiedCount = 1
			break
		}
	}
	return res, nil
}

func (s *dynamoStore) DeleteOne(ctx context.Context, id bson.ObjectID) (*DeleteResult, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          dynamoKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("docstore: delete failed: %w", err)
	}

	res := &DeleteResult{Acknowledged: true}
	if len(out.Attributes) > 0 {
		res.DeletedCount = 1
	}
	return res, nil
}

func dynamoKey(id bson.ObjectID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		IDField: &types.AttributeValueMemberS{Value: id.Hex()},
	}
}

// decodeItem converte o item em Document; números viram int64 ou float64
// e o "_id" volta a ser ObjectID.
func decodeItem(item map[string]types.AttributeValue) (Document, error) {
	raw := map[string]interface{}{}
	err := attributevalue.UnmarshalMapWithOptions(item, &raw, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, err
	}

	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeValue(v)
	}
	if hex, ok := doc[IDField].(string); ok {
		if id, err := bson.ObjectIDFromHex(hex); err == nil {
			doc[IDField] = id
		}
	}
	return doc, nil
}

// normalizeValue deixa valores do DynamoDB e do cliente no mesmo formato
func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case attributevalue.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[k] = normalizeValue(item)
		}
		return out
	case Document:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[k] = normalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// sameValue compara como o DynamoDB armazena: números pelo valor, sem distinguir
// int64 de float64 (4.0 volta como 4)
func sameValue(a, b interface{}) bool {
	if typeRank(a) == 1 && typeRank(b) == 1 {
		return toFloat(a) == toFloat(b)
	}
	switch x := a.(type) {
	case map[string]interface{}:
		y, ok := b.(map[string]interface{})
		if !ok || len(x) != len(y) {
			return false
		}
		for k, item := range x {
			other, exists := y[k]
			if !exists || !sameValue(item, other) {
				return false
			}
		}
		return true
	case []interface{}:
		y, ok := b.([]interface{})
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !sameValue(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

type dynamoBackend struct {
	client DynamoDBClient
	prefix string
}

// NewDynamoBackend mapeia cada coleção para a tabela prefix+nome
func NewDynamoBackend(client DynamoDBClient, tablePrefix string) Backend {
	return &dynamoBackend{client: client, prefix: tablePrefix}
}

func (b *dynamoBackend) Collection(name string) Store {
	return NewDynamoStore(b.client, b.prefix+name)
}

func (b *dynamoBackend) Close(context.Context) error { return nil }

// NewDynamoClient cria o cliente real a partir da cadeia padrão de credenciais da AWS
func NewDynamoClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("docstore: aws config failed: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}
