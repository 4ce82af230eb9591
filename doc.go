// Package livrosapi é a API REST de Livros: CRUD sobre as coleções de
// documentos "livros" e "usuarios".
//
// Visão Geral:
// Cada rota valida a entrada, executa uma única operação no banco de
// documentos e traduz o resultado (ou o erro) em uma resposta HTTP JSON.
// O mesmo http.Handler atende o servidor local e o AWS Lambda (API Gateway).
//
// Sub-Pacotes Principais:
//
// 1. docstore:
//   - Interface Store por coleção, com QueryBuilder fluente.
//   - Backends MongoDB (padrão), DynamoDB e memória.
//
// 2. envloader:
//   - Carregamento de configurações via tags "env" e "envDefault", em camadas.
//
// 3. pkg/resource:
//   - Controller genérico parametrizado por coleção, regras de validação,
//     projeção, ordenação e campo de busca.
//
// 4. pkg/transport:
//   - Composição das rotas (gorilla/mux), middlewares de recovery,
//     observabilidade e CORS, servidor HTTP com graceful shutdown e adaptador Lambda.
//
// 5. pkg/config, pkg/logger, pkg/observability:
//   - YAML + ambiente + Secrets Manager, zerolog e métricas Datadog.
//
// Exemplo de Início Rápido:
//
//	STORE_DRIVER=memory LOG_FORMAT=console go run ./cmd/server
//
//	curl -X POST localhost:4000/api/livros \
//		-d '{"name":"Dom Casmurro","author":"Machado de Assis","releaseYear":1899}'
//	curl localhost:4000/api/livros/razao/casmurro
package livrosapi
