package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/raywall/livros-api/docstore"
	"github.com/raywall/livros-api/pkg/config"
	"github.com/raywall/livros-api/pkg/logger"
	"github.com/raywall/livros-api/pkg/observability"
	"github.com/raywall/livros-api/pkg/transport"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
	storeOpener   = docstore.Open
)

func main() {
	if err := run(context.Background(), ""); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha na inicialização")
	}
}

// run contém a lógica principal testável; cfgPath vazio usa CONFIG_FILE_PATH
func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(ctx, cfgPath)
	if err != nil {
		return err
	}

	lg := logger.Configure(cfg.Logging, cfg.Version)

	provider, err := observability.SetupMetrics(cfg.Metrics, cfg.Version)
	if err != nil {
		return err
	}
	if c, ok := provider.(io.Closer); ok {
		defer c.Close()
	}

	backend, err := storeOpener(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("erro ao abrir o banco de documentos: %w", err)
	}
	defer closeBackend(backend, cfg.ShutdownTimeout)

	staticDir := cfg.StaticDir
	if staticDir != "" && !transport.StaticDirExists(staticDir) {
		lg.Warn().Str("static_dir", staticDir).Msg("diretório de estáticos não encontrado; apenas a API será servida")
		staticDir = ""
	}

	handler := transport.NewRouter(backend, transport.RouterOptions{
		Version:   cfg.Version,
		StaticDir: staticDir,
		Metrics:   provider,
	})

	lg.Info().
		Str("runtime", cfg.Runtime).
		Str("store_driver", cfg.Store.Driver).
		Str("database", cfg.Store.Database).
		Msg("API de livros inicializada")

	switch cfg.Runtime {
	case "lambda":
		lambdaStarter(transport.NewLambdaHandler(handler).Handle)
		return nil
	default:
		return serverStarter(ctx, cfg, handler)
	}
}

func closeBackend(backend docstore.Backend, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := backend.Close(ctx); err != nil {
		log.Error().Err(err).Msg("erro ao encerrar o banco de documentos")
	}
}
