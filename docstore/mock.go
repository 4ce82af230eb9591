// docstore/mock.go
package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockStore é um mock completo e fácil de usar para testes da interface Store.
//
// Ele expõe campos de função (`FindFn`, `InsertOneFn`, etc.) que podem ser
// definidos para simular o comportamento desejado do banco durante os testes.
// A Query recebida por FindFn é a montada pelo QueryBuilder do chamador.
type MockStore struct {
	FindFn      func(ctx context.Context, q Query) ([]Document, error)
	InsertOneFn func(ctx context.Context, doc Document) (*InsertResult, error)
	UpdateOneFn func(ctx context.Context, id bson.ObjectID, set Document) (*UpdateResult, error)
	DeleteOneFn func(ctx context.Context, id bson.ObjectID) (*DeleteResult, error)
}

func (m *MockStore) Find() *QueryBuilder {
	return NewQueryBuilder(func(ctx context.Context, q Query) ([]Document, error) {
		if m.FindFn != nil {
			return m.FindFn(ctx, q)
		}
		return nil, nil
	})
}

func (m *MockStore) InsertOne(ctx context.Context, doc Document) (*InsertResult, error) {
	if m.InsertOneFn != nil {
		return m.InsertOneFn(ctx, doc)
	}
	return &InsertResult{Acknowledged: true, InsertedID: bson.NewObjectID()}, nil
}

func (m *MockStore) UpdateOne(ctx context.Context, id bson.ObjectID, set Document) (*UpdateResult, error) {
	if m.UpdateOneFn != nil {
		return m.UpdateOneFn(ctx, id, set)
	}
	return &UpdateResult{Acknowledged: true}, nil
}

func (m *MockStore) DeleteOne(ctx context.Context, id bson.ObjectID) (*DeleteResult, error) {
	if m.DeleteOneFn != nil {
		return m.DeleteOneFn(ctx, id)
	}
	return &DeleteResult{Acknowledged: true}, nil
}
