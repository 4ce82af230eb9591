// docstore/types.go
package docstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrInvalidID – o identificador recebido não é um ObjectID válido
	ErrInvalidID = errors.New("docstore: invalid document identifier")
	// ErrUnknownDriver – driver de armazenamento não suportado
	ErrUnknownDriver = errors.New("docstore: unknown store driver")
)

// IDField é o nome do campo identificador gerado pelo banco
const IDField = "_id"

// Document é um registro schema-flexível de uma coleção
type Document = bson.M

// Store — interface principal, uma instância por coleção
type Store interface {
	// Find retorna um QueryBuilder fluente sobre a coleção
	Find() *QueryBuilder

	InsertOne(ctx context.Context, doc Document) (*InsertResult, error)
	UpdateOne(ctx context.Context, id bson.ObjectID, set Document) (*UpdateResult, error)
	DeleteOne(ctx context.Context, id bson.ObjectID) (*DeleteResult, error)
}

// Backend agrupa as coleções de um mesmo banco e o ciclo de vida da conexão
type Backend interface {
	Collection(name string) Store
	Close(ctx context.Context) error
}

// Options — configuração do backend de documentos
type Options struct {
	Driver      string        `yaml:"driver" env:"STORE_DRIVER" envDefault:"mongodb" validate:"oneof=mongodb dynamodb memory"`
	URI         string        `yaml:"uri" env:"MONGODB_URI" validate:"required_if=Driver mongodb"`
	Database    string        `yaml:"database" env:"MONGODB_DATABASE" envDefault:"livraria" validate:"required"`
	SecretID    string        `yaml:"secret_id" env:"MONGODB_SECRET_ID"`
	Timeout     time.Duration `yaml:"timeout" env:"MONGODB_TIMEOUT" envDefault:"10s"`
	MaxPoolSize uint64        `yaml:"max_pool_size" env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	AppName     string        `yaml:"app_name" env:"MONGODB_APP_NAME" envDefault:"livros-api"`

	// DynamoDB: uma tabela por coleção, chave de partição "_id" (S)
	TablePrefix string `yaml:"table_prefix" env:"DYNAMODB_TABLE_PREFIX"`
	Region      string `yaml:"region" env:"AWS_REGION"`
	Endpoint    string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT"`
}

// InsertResult — confirmação de inserção, com o identificador gerado
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// UpdateResult — confirmação de alteração
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult — confirmação de exclusão
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ParseID converte a representação hexadecimal em ObjectID
func ParseID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// Query descreve uma leitura sobre a coleção. É montada pelo QueryBuilder
// e traduzida por cada backend.
type Query struct {
	ID       *bson.ObjectID
	Contains *Match
	SortBy   string
	Exclude  []string
}

// Match — busca por substring sem diferenciar maiúsculas e minúsculas
type Match struct {
	Field     string
	Substring string
}

// QueryFunc executa a Query no backend concreto
type QueryFunc func(ctx context.Context, q Query) ([]Document, error)

// QueryBuilder — o builder fluente
type QueryBuilder struct {
	query Query
	run   QueryFunc
}

// NewQueryBuilder cria um builder ligado ao executor de um backend
func NewQueryBuilder(run QueryFunc) *QueryBuilder {
	return &QueryBuilder{run: run}
}

// ByID restringe a leitura ao documento com o identificador informado
func (qb *QueryBuilder) ByID(id bson.ObjectID) *QueryBuilder {
	qb.query.ID = &id
	return qb
}

// Contains filtra documentos cujo campo contém a substring (case-insensitive)
func (qb *QueryBuilder) Contains(field, substring string) *QueryBuilder {
	qb.query.Contains = &Match{Field: field, Substring: substring}
	return qb
}

// SortAsc ordena o resultado pelo campo em ordem crescente
func (qb *QueryBuilder) SortAsc(field string) *QueryBuilder {
	qb.query.SortBy = field
	return qb
}

// Exclude remove campos do resultado (projeção negativa)
func (qb *QueryBuilder) Exclude(fields ...string) *QueryBuilder {
	qb.query.Exclude = append(qb.query.Exclude, fields...)
	return qb
}

// Query devolve a consulta montada até o momento
func (qb *QueryBuilder) Query() Query {
	return qb.query
}

// Exec executa a consulta. Nunca retorna nil em caso de sucesso.
func (qb *QueryBuilder) Exec(ctx context.Context) ([]Document, error) {
	if qb.run == nil {
		return []Document{}, nil
	}
	docs, err := qb.run(ctx, qb.query)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}
