// docstore/factory.go
package docstore

import (
	"context"
	"fmt"
)

// Open cria o Backend configurado.
//
// Drivers suportados:
//
//	"mongodb"  - MongoDB via Options.URI (padrão)
//	"dynamodb" - uma tabela DynamoDB por coleção (Options.TablePrefix + nome)
//	"memory"   - em memória (efêmero, para desenvolvimento e testes)
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "mongodb", "":
		client, err := Connect(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewMongoBackend(client, opts.Database), nil
	case "dynamodb":
		client, err := NewDynamoClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewDynamoBackend(client, opts.TablePrefix), nil
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q (suportados: mongodb, dynamodb, memory)", ErrUnknownDriver, opts.Driver)
	}
}
