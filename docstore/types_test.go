// docstore/types_test.go
package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()

	parsed, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, invalid := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "00"} {
		_, err := ParseID(invalid)
		assert.ErrorIs(t, err, ErrInvalidID, invalid)
	}
}

func TestQueryBuilder_ComposesQuery(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	var got Query
	qb := NewQueryBuilder(func(_ context.Context, q Query) ([]Document, error) {
		got = q
		return nil, nil
	})

	docs, err := qb.ByID(id).Contains("name", "boo").SortAsc("name").Exclude("senha").Exclude("password").Exec(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, docs, "Exec nunca devolve nil em sucesso")
	require.NotNil(t, got.ID)
	assert.Equal(t, id, *got.ID)
	assert.Equal(t, &Match{Field: "name", Substring: "boo"}, got.Contains)
	assert.Equal(t, "name", got.SortBy)
	assert.Equal(t, []string{"senha", "password"}, got.Exclude)
}

func TestQueryBuilder_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	qb := NewQueryBuilder(func(context.Context, Query) ([]Document, error) { return nil, boom })

	_, err := qb.Exec(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	b, err := Open(context.Background(), Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = Open(context.Background(), Options{Driver: "dynamodb", Region: "us-east-1", Endpoint: "http://localhost:8000", TablePrefix: "dev_"})
	require.NoError(t, err)
	assert.IsType(t, &dynamoBackend{}, b)
	assert.NoError(t, b.Close(context.Background()))

	_, err = Open(context.Background(), Options{Driver: "redis"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
