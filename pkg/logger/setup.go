package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raywall/livros-api/pkg/config"
)

// ServiceName identifica a API nos logs
const ServiceName = "livros-api"

// Configure inicializa o logger global baseando-se na configuração.
func Configure(cfg config.LoggingConf, version string) zerolog.Logger {
	return configure(cfg, version, os.Stdout)
}

func configure(cfg config.LoggingConf, version string, out io.Writer) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, Console para desenvolvimento local
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", ServiceName).
		Str("version", version).
		Logger()

	// log.Ctx sem logger no contexto cai no global
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	return logger
}
