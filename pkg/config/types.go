package config

import (
	"fmt"
	"time"

	"github.com/raywall/livros-api/docstore"
)

// AppConfig representa a configuração completa da API.
// Os valores vêm, em ordem crescente de prioridade, de envDefault, do YAML e do ambiente.
type AppConfig struct {
	Port            int           `yaml:"port" env:"PORT" envDefault:"4000" validate:"required_if=Runtime local,gte=0,lte=65535"`
	Runtime         string        `yaml:"runtime" env:"APP_RUNTIME" envDefault:"local" validate:"required,oneof=local lambda"`
	Version         string        `yaml:"version" env:"APP_VERSION" envDefault:"1.0.1" validate:"required"`
	StaticDir       string        `yaml:"static_dir" env:"STATIC_DIR" envDefault:"public"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AWSRegion       string        `yaml:"aws_region" env:"AWS_REGION"`

	Store   docstore.Options `yaml:"store"`
	Logging LoggingConf      `yaml:"logging"`
	Metrics MetricsConf      `yaml:"metrics"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED" envDefault:"false"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"livros_api."`
}

// Addr devolve o endereço de escuta do servidor HTTP
func (c AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
