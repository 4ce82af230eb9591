package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/livros-api/docstore"
	"github.com/raywall/livros-api/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func stubStarters(t *testing.T) {
	t.Helper()
	origServer, origLambda, origOpener := serverStarter, lambdaStarter, storeOpener
	t.Cleanup(func() {
		serverStarter, lambdaStarter, storeOpener = origServer, origLambda, origOpener
	})
}

func TestRun_ServerBootstrap(t *testing.T) {
	stubStarters(t)
	path := writeConfig(t, `
port: 9999
version: "1.2.3"
static_dir: ""
store:
  driver: memory
logging:
  enabled: false
`)

	called := false
	serverStarter = func(ctx context.Context, cfg *config.AppConfig, handler http.Handler) error {
		called = true
		assert.Equal(t, 9999, cfg.Port)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "1.2.3")

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/livros", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
		return nil
	}

	require.NoError(t, run(context.Background(), path))
	assert.True(t, called, "O servidor HTTP não foi iniciado")
}

func TestRun_LambdaBootstrap(t *testing.T) {
	stubStarters(t)
	t.Setenv("APP_RUNTIME", "lambda")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_ENABLED", "false")
	t.Setenv("STATIC_DIR", filepath.Join(t.TempDir(), "nao-existe"))

	var handler interface{}
	lambdaStarter = func(h interface{}) { handler = h }
	serverStarter = func(context.Context, *config.AppConfig, http.Handler) error {
		t.Fatal("runtime lambda não deveria subir o servidor HTTP")
		return nil
	}

	require.NoError(t, run(context.Background(), ""))

	handle, ok := handler.(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error))
	require.True(t, ok, "handler inesperado: %T", handler)

	resp, err := handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/api"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRun_Errors(t *testing.T) {
	t.Run("configuração inválida", func(t *testing.T) {
		stubStarters(t)
		t.Setenv("APP_RUNTIME", "ec2")
		t.Setenv("STORE_DRIVER", "memory")
		assert.Error(t, run(context.Background(), ""))
	})

	t.Run("falha ao abrir o banco", func(t *testing.T) {
		stubStarters(t)
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("LOG_ENABLED", "false")
		storeOpener = func(context.Context, docstore.Options) (docstore.Backend, error) {
			return nil, errors.New("connection refused")
		}

		err := run(context.Background(), "")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("erro do servidor é propagado", func(t *testing.T) {
		stubStarters(t)
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("LOG_ENABLED", "false")
		serverStarter = func(context.Context, *config.AppConfig, http.Handler) error {
			return errors.New("address already in use")
		}

		assert.ErrorContains(t, run(context.Background(), ""), "address already in use")
	})
}
