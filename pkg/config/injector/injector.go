package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.MONGODB_PASSWORD}, ${secret.livros/mongo}, ${secret.livros/mongo#uri}
var pattern = regexp.MustCompile(`\$\{(env|secret)\.([^}]+)\}`)

// SecretFetcher devolve o SecretString de um segredo
type SecretFetcher func(ctx context.Context, secretID string) (string, error)

type Injector struct {
	secrets SecretFetcher
}

// New cria o injector; sem fetcher, referências ${secret.*} falham
func New(secrets SecretFetcher) *Injector {
	return &Injector{secrets: secrets}
}

// Inject percorre a struct e substitui os placeholders de todos os campos string
func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			if err := i.injectRecursive(ctx, v.Field(k)); err != nil {
				return err
			}
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		groups := pattern.FindStringSubmatch(match)

		val, resolveErr := i.fetchValue(ctx, groups[1], groups[2])
		if resolveErr != nil {
			err = resolveErr
			return match
		}
		return val
	})

	return result, err
}

func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		// variável não encontrada vira vazio
		return os.Getenv(key), nil

	case "secret":
		if i.secrets == nil {
			return "", fmt.Errorf("placeholder ${secret.%s} sem cliente de segredos", key)
		}
		id, field, hasField := strings.Cut(key, "#")
		raw, err := i.secrets(ctx, id)
		if err != nil {
			return "", err
		}
		if !hasField {
			return raw, nil
		}
		return jsonField(raw, id, field)
	}

	return "", fmt.Errorf("fonte desconhecida: %s", sourceType)
}

func jsonField(raw, id, field string) (string, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return "", fmt.Errorf("segredo '%s' não é JSON: %w", id, err)
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("segredo '%s' não contém a chave '%s'", id, field)
	}
	return fmt.Sprintf("%v", val), nil
}
