package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raywall/livros-api/envloader"
	"github.com/raywall/livros-api/pkg/config/injector"
)

// EnvConfigPath aponta para um arquivo YAML opcional
const EnvConfigPath = "CONFIG_FILE_PATH"

// Load monta a configuração em camadas: envDefault, arquivo YAML (se houver) e ambiente.
// Placeholders ${env.*} e ${secret.*} e o segredo da URI são resolvidos antes da validação final.
func Load(ctx context.Context, path string) (*AppConfig, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := injector.New(secretFetcher(cfg.AWSRegion)).Inject(ctx, cfg); err != nil {
		return nil, fmt.Errorf("erro ao resolver placeholders: %w", err)
	}

	if err := ResolveSecrets(ctx, cfg); err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envloader.LoadDefaults(cfg); err != nil {
		return nil, fmt.Errorf("erro ao aplicar valores padrão: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("erro ao decodificar YAML: %w", err)
		}
	}

	if err := envloader.LoadEnv(cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler variáveis de ambiente: %w", err)
	}
	return cfg, nil
}
