// docstore/mongo.go
package docstore

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection abstrai o *mongo.Collection para permitir mocks nos testes
type Collection interface {
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

type mongoStore struct {
	coll Collection
}

// NewMongoStore cria um store reutilizável sobre uma coleção do MongoDB
func NewMongoStore(coll Collection) Store {
	return &mongoStore{coll: coll}
}

func (s *mongoStore) Find() *QueryBuilder {
	return NewQueryBuilder(s.find)
}

func (s *mongoStore) find(ctx context.Context, q Query) ([]Document, error) {
	cur, err := s.coll.Find(ctx, filterFor(q), findOptionsFor(q))
	if err != nil {
		return nil, fmt.Errorf("docstore: find failed: %w", err)
	}

	docs := make([]Document, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("docstore: decode failed: %w", err)
	}
	return docs, nil
}

// InsertOne insere o documento; o _id é sempre gerado pelo banco
func (s *mongoStore) InsertOne(ctx context.Context, doc Document) (*InsertResult, error) {
	res, err := s.coll.InsertOne(ctx, withoutID(doc))
	if err != nil {
		return nil, fmt.Errorf("docstore: insert failed: %w", err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// UpdateOne aplica $set no documento identificado, nunca alterando o _id
func (s *mongoStore) UpdateOne(ctx context.Context, id bson.ObjectID, set Document) (*UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": withoutID(set)})
	if err != nil {
		return nil, fmt.Errorf("docstore: update failed: %w", err)
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (s *mongoStore) DeleteOne(ctx context.Context, id bson.ObjectID) (*DeleteResult, error) {
	res, err := s.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return nil, fmt.Errorf("docstore: delete failed: %w", err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func idFilter(id bson.ObjectID) bson.M {
	return bson.M{IDField: bson.M{"$eq": id}}
}

// filterFor traduz a Query para o filtro nativo do MongoDB
func filterFor(q Query) bson.M {
	filter := bson.M{}
	if q.ID != nil {
		filter[IDField] = bson.M{"$eq": *q.ID}
	}
	if q.Contains != nil {
		filter[q.Contains.Field] = bson.Regex{
			Pattern: regexp.QuoteMeta(q.Contains.Substring),
			Options: "i",
		}
	}
	return filter
}

func findOptionsFor(q Query) *options.FindOptionsBuilder {
	opts := options.Find()
	if q.SortBy != "" {
		opts.SetSort(bson.D{{Key: q.SortBy, Value: 1}})
	}
	if len(q.Exclude) > 0 {
		projection := bson.M{}
		for _, f := range q.Exclude {
			projection[f] = 0
		}
		opts.SetProjection(projection)
	}
	return opts
}

// --- Conexão ---

type mongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect abre o pool de conexões e valida o acesso com um ping
func Connect(ctx context.Context, opts Options) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetAppName(opts.AppName).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if opts.Timeout > 0 {
		clientOpts.SetConnectTimeout(opts.Timeout).SetServerSelectionTimeout(opts.Timeout)
	}
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("docstore: connect failed: %w", err)
	}

	pingCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("docstore: ping failed: %w", err)
	}
	return client, nil
}

// NewMongoBackend expõe as coleções de um banco já conectado
func NewMongoBackend(client *mongo.Client, database string) Backend {
	return &mongoBackend{client: client, db: client.Database(database)}
}

func (b *mongoBackend) Collection(name string) Store {
	return NewMongoStore(b.db.Collection(name))
}

func (b *mongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}
