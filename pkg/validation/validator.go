package validation

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// TagText exige que o valor seja uma string (JSON string, não número)
const TagText = "text"

// Rule associa um campo do documento a uma regra do validator e à mensagem
// devolvida quando ela falha.
type Rule struct {
	Param string
	Tag   string
	Msg   string
}

// RuleSet é avaliado por completo: todas as falhas são coletadas
type RuleSet []Rule

// FieldError descreve uma falha de validação no formato do envelope de erro
type FieldError struct {
	Value any    `json:"value"`
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// Validator aplica RuleSets sobre documentos genéricos
type Validator struct {
	validate *validator.Validate
}

// New cria um Validator com as regras customizadas já registradas
func New() *Validator {
	v := validator.New()
	mustRegister(v, TagText, func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String
	})
	return &Validator{validate: v}
}

// mustRegister entra em pânico quando a tag não pode ser registrada (erro de programação)
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: falha ao registrar a tag %q: %v", tag, err))
	}
}

// RegisterValidation permite adicionar regras customizadas ao validator
func (v *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}

// Validate devolve as falhas na ordem das regras; nil quando o documento é válido.
// Campos ausentes sempre falham.
func (v *Validator) Validate(ctx context.Context, doc map[string]any, rules RuleSet) []FieldError {
	var errs []FieldError
	for _, r := range rules {
		value, ok := doc[r.Param]
		if !ok || value == nil {
			errs = append(errs, FieldError{Value: value, Msg: r.Msg, Param: r.Param})
			continue
		}
		if err := v.validate.VarCtx(ctx, value, r.Tag); err != nil {
			errs = append(errs, FieldError{Value: value, Msg: r.Msg, Param: r.Param})
		}
	}
	return errs
}
