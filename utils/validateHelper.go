package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// field labels used in messages; keys are json names
var fieldLabels = map[string]string{
	"item":               "item",
	"date":               "data",
	"value":              "valor",
	"type":               "tipo",
	"expense_type":       "tipo de despesa",
	"payment_method":     "método de pagamento",
	"status":             "status",
	"is_recurring":       "recorrente",
	"recurring_type":     "tipo de recorrência",
	"installments":       "parcelas",
	"recurring_end_date": "data final da recorrência",
	"wallet_id":          "carteira",
	"name":               "nome",
	"description":        "descrição",
	"budget":             "orçamento",
	"email":              "e-mail",
	"password":           "senha",
	"role":               "função",
	"cnpj":               "CNPJ",
	"razao_social":       "razão social",
	"inscricao_estadual": "inscrição estadual",
	"telefone":           "telefone",
	"endereco":           "endereço",
	"pessoa_responsavel": "pessoa responsável",
	"website":            "website",
	"year":               "ano",
	"month":              "mês",
	"date_from":          "data inicial",
	"date_until":         "data final",
	"period":             "período",
}

func FieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return strings.ReplaceAll(field, "_", " ")
}

// RegisterJSONTagNames makes validator report json (or form) names instead of Go field names.
func RegisterJSONTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

func validationMessage(fe validator.FieldError) string {
	label := FieldLabel(fe.Field())
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", label)
	case "max":
		if isText {
			return fmt.Sprintf("O campo %s não pode ter mais de %s caracteres.", label, fe.Param())
		}
		return fmt.Sprintf("O campo %s não pode ser maior que %s.", label, fe.Param())
	case "min":
		if isText {
			return fmt.Sprintf("O campo %s deve ter pelo menos %s caracteres.", label, fe.Param())
		}
		return fmt.Sprintf("O campo %s deve ser maior ou igual a %s.", label, fe.Param())
	case "email":
		return fmt.Sprintf("O campo %s deve ser um endereço de e-mail válido.", label)
	case "oneof":
		return fmt.Sprintf("O valor selecionado para o campo %s é inválido.", label)
	case "datetime":
		return fmt.Sprintf("O campo %s deve ser uma data válida.", label)
	case "numeric", "number":
		return fmt.Sprintf("O campo %s deve ser um número.", label)
	default:
		return fmt.Sprintf("O campo %s é inválido.", label)
	}
}

// ProcessValidationErrors turns a binding error into per-field Portuguese messages.
// ok is false when err is not caused by the request payload.
func ProcessValidationErrors(err error) (fields map[string][]string, ok bool) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields = make(map[string][]string)
		for _, fe := range validationErrors {
			name := fe.Field()
			fields[name] = append(fields[name], validationMessage(fe))
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		name := typeErr.Field
		if name == "" {
			name = "body"
		}
		msg := fmt.Sprintf("O campo %s é inválido.", FieldLabel(name))
		switch typeErr.Type.Kind() {
		case reflect.Int, reflect.Int64, reflect.Float64, reflect.Uint:
			msg = fmt.Sprintf("O campo %s deve ser um número.", FieldLabel(name))
		case reflect.String:
			msg = fmt.Sprintf("O campo %s deve ser um texto.", FieldLabel(name))
		}
		return map[string][]string{name: {msg}}, true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return map[string][]string{"body": {"O corpo da requisição não é um JSON válido."}}, true
	}

	return nil, false
}

var structValidator = newStructValidator()

// uses the same `binding` tags gin validates requests with
func newStructValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	RegisterJSONTagNames(v)
	return v
}

// ValidateStruct checks binding tags outside of a request and returns a *ValidationError.
func ValidateStruct(s any) error {
	if err := structValidator.Struct(s); err != nil {
		if fields, ok := ProcessValidationErrors(err); ok {
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}
