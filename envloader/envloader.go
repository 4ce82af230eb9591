package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// source define quais camadas de valores são aplicadas na struct
type source int

const (
	fromDefaults source = 1 << iota
	fromEnv
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load preenche uma struct com valores de variáveis de ambiente
// baseado nas tags "env" e "envDefault"
func Load(config interface{}) error {
	return load(config, fromDefaults|fromEnv)
}

// LoadDefaults aplica apenas os valores da tag "envDefault", ignorando o ambiente.
// Útil como primeira camada antes de um arquivo de configuração.
func LoadDefaults(config interface{}) error {
	return load(config, fromDefaults)
}

// LoadEnv aplica apenas as variáveis de ambiente definidas, sem defaults.
// Campos cuja variável não existe permanecem intocados.
func LoadEnv(config interface{}) error {
	return load(config, fromEnv)
}

func load(config interface{}, src source) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: reflect.TypeOf(config)}
	}

	return loadStruct(val.Elem(), src)
}

// loadStruct processa recursivamente uma struct
func loadStruct(val reflect.Value, src source) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStruct(field, src); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := loadStruct(field.Elem(), src); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		value, ok := resolve(envTag, fieldType.Tag.Get("envDefault"), src)
		if !ok {
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    envTag,
				Value:     value,
				Err:       err,
			}
		}
	}

	return nil
}

// resolve decide o valor final do campo conforme as camadas habilitadas
func resolve(envVar, defaultValue string, src source) (string, bool) {
	if src&fromEnv != 0 {
		if v, ok := os.LookupEnv(envVar); ok && v != "" {
			return v, true
		}
	}
	if src&fromDefaults != 0 && defaultValue != "" {
		return defaultValue, true
	}
	return "", false
}

// setFieldValue define o valor de um campo baseado no seu tipo
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return &UnsupportedTypeError{Type: field.Type()}
		}
		parts := strings.Split(value, ",")
		items := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = reflect.Append(items, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(items)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}

// MustLoad é similar ao Load, mas panic em caso de erro
func MustLoad(config interface{}) {
	if err := Load(config); err != nil {
		panic(err)
	}
}
