package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/raywall/livros-api/pkg/config/injector"
)

// SecretsClient abstrai o SDK da AWS (permite mocking)
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var (
	awsCfg  aws.Config
	awsOnce sync.Once
	awsErr  error
)

// GetAWSConfig carrega a configuração da AWS (env vars, profile, IAM role) de forma lazy-singleton.
func GetAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	awsOnce.Do(func() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if region != "" {
			opts = append(opts, awsconfig.WithRegion(region))
		}
		awsCfg, awsErr = awsconfig.LoadDefaultConfig(ctx, opts...)
	})
	return awsCfg, awsErr
}

// ResolveSecrets preenche a URI do mongodb a partir do Secrets Manager quando
// MONGODB_SECRET_ID está definido. Uma URI explícita sempre prevalece.
func ResolveSecrets(ctx context.Context, cfg *AppConfig) error {
	if cfg.Store.SecretID == "" || cfg.Store.URI != "" {
		return nil
	}

	awsCfg, err := GetAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return fmt.Errorf("erro ao carregar configuração da AWS: %w", err)
	}
	return resolveSecretsWith(ctx, secretsmanager.NewFromConfig(awsCfg), cfg)
}

func resolveSecretsWith(ctx context.Context, client SecretsClient, cfg *AppConfig) error {
	if cfg.Store.SecretID == "" || cfg.Store.URI != "" {
		return nil
	}

	uri, err := getSecretURI(ctx, client, cfg.Store.SecretID)
	if err != nil {
		return err
	}
	cfg.Store.URI = uri
	return nil
}

// getSecretURI aceita o segredo como URI pura ou JSON {"uri": "..."}
func getSecretURI(ctx context.Context, client SecretsClient, secretID string) (string, error) {
	val, err := getSecretString(ctx, client, secretID)
	if err != nil {
		return "", err
	}
	val = strings.TrimSpace(val)

	var data struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal([]byte(val), &data); err == nil {
		if data.URI == "" {
			return "", fmt.Errorf("segredo '%s' não contém a chave 'uri'", secretID)
		}
		return data.URI, nil
	}
	if val == "" {
		return "", fmt.Errorf("segredo '%s' está vazio", secretID)
	}
	return val, nil
}

func getSecretString(ctx context.Context, client SecretsClient, secretID string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager: %w", err)
	}
	if out.SecretString == nil {
		return "", errors.New("segredo sem SecretString")
	}
	return *out.SecretString, nil
}

// secretFetcher adia a criação do cliente até o primeiro placeholder ${secret.*}
func secretFetcher(region string) injector.SecretFetcher {
	return func(ctx context.Context, secretID string) (string, error) {
		awsCfg, err := GetAWSConfig(ctx, region)
		if err != nil {
			return "", fmt.Errorf("erro ao carregar configuração da AWS: %w", err)
		}
		return getSecretString(ctx, secretsmanager.NewFromConfig(awsCfg), secretID)
	}
}
