// Package docstore fornece uma abstração sobre bancos de documentos
// (MongoDB Go Driver v2, DynamoDB) para coleções schema-flexíveis.
//
// Visão Geral:
// O pacote oferece a interface `Store`, uma por coleção, com as quatro
// operações usadas pela API: leitura via `QueryBuilder`, `InsertOne`,
// `UpdateOne` ($set) e `DeleteOne`. Os identificadores são ObjectIDs gerados
// pelo banco e nunca são sobrescritos.
//
// Funcionalidades Principais:
// - Builder Fluente: `Find().ByID(id)`, `Find().Contains("name", "boo")`,
//   `Find().SortAsc("name").Exclude("senha")`.
// - Busca por substring case-insensitive, com metacaracteres de regex escapados.
// - Backends: MongoDB (`NewMongoStore`, `Connect`), DynamoDB (`NewDynamoStore`,
//   uma tabela por coleção com chave "_id") e memória (`MemoryStore`).
// - Mocks Integrados: `MockStore` para testes unitários dos handlers.
//
// Exemplo:
//
//	backend, err := docstore.Open(ctx, docstore.Options{Driver: "memory"})
//	if err != nil { /* ... */ }
//	livros := backend.Collection("livros")
//
//	res, _ := livros.InsertOne(ctx, docstore.Document{"name": "Dom Casmurro"})
//	docs, _ := livros.Find().ByID(res.InsertedID.(bson.ObjectID)).Exec(ctx)
package docstore
