package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		// Reportar los campos con el nombre JSON (camelCase) en lugar del nombre Go.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate aplica las etiquetas `validate` de un DTO. Devuelve nil si es válido.
func Validate(in any) []FieldError {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: "cuerpo inválido"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "RegisterRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "notblank":
		return "no puede estar vacío"
	case "email":
		return "debe ser un email válido"
	case "uuid", "uuid4":
		return "debe ser un identificador válido"
	case "url":
		return "debe ser una URL válida"
	case "oneof":
		return "debe ser uno de: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "datetime":
		return "debe tener formato YYYY-MM-DD"
	case "min":
		if isText {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if isText {
			return fmt.Sprintf("no puede superar %s caracteres", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("no puede tener más de %s elementos", fe.Param())
		}
		return "debe ser menor o igual a " + fe.Param()
	default:
		return "valor inválido"
	}
}
