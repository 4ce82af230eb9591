package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/raywall/livros-api/docstore"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Port:            4000,
		Runtime:         "local",
		Version:         "1.0.1",
		StaticDir:       "public",
		ShutdownTimeout: 10 * time.Second,
		Store: docstore.Options{
			Driver:      "mongodb",
			URI:         "mongodb://localhost:27017",
			Database:    "livraria",
			Timeout:     10 * time.Second,
			MaxPoolSize: 100,
		},
		Logging: LoggingConf{Enabled: true, Level: "info", Format: "json"},
	}
}

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{
			name:   "Valid Config",
			mutate: func(c *AppConfig) {},
		},
		{
			name:   "Memory driver dispensa URI",
			mutate: func(c *AppConfig) { c.Store.Driver = "memory"; c.Store.URI = "" },
		},
		{
			name:   "Lambda dispensa porta",
			mutate: func(c *AppConfig) { c.Runtime = "lambda"; c.Port = 0 },
		},
		{
			name:    "Mongo sem URI",
			mutate:  func(c *AppConfig) { c.Store.URI = "" },
			wantErr: "AppConfig.Store.URI",
		},
		{
			name:    "Runtime inválido",
			mutate:  func(c *AppConfig) { c.Runtime = "ecs" },
			wantErr: "'oneof'",
		},
		{
			name:    "Driver desconhecido",
			mutate:  func(c *AppConfig) { c.Store.Driver = "redis" },
			wantErr: "AppConfig.Store.Driver",
		},
		{
			name:    "Datadog sem endereço",
			mutate:  func(c *AppConfig) { c.Metrics.Datadog.Enabled = true },
			wantErr: "AppConfig.Metrics.Datadog.Addr",
		},
		{
			name:    "Nível de log inválido",
			mutate:  func(c *AppConfig) { c.Logging.Level = "trace" },
			wantErr: "AppConfig.Logging.Level",
		},
		{
			name:    "Shutdown negativo",
			mutate:  func(c *AppConfig) { c.ShutdownTimeout = -time.Second },
			wantErr: "semântica",
		},
		{
			name:    "Segredo sem URI",
			mutate:  func(c *AppConfig) { c.Store.SecretID = "livros/mongo"; c.Store.URI = "" },
			wantErr: "AppConfig.Store.URI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validator.Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidator_NilConfig(t *testing.T) {
	assert.Error(t, NewValidator().Validate(nil))
}

func TestAppConfig_Addr(t *testing.T) {
	assert.Equal(t, ":4000", validConfig().Addr())
}
