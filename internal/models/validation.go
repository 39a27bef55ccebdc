package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators registra las reglas propias del catálogo en el validador
// (el mismo que usa gin para los tags `binding`).
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("price2dp", validatePrice2dp); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		return err
	}
	return v.RegisterValidation("uniquesizes", validateUniqueSizes)
}

// validatePrice2dp exige como máximo dos decimales
func validatePrice2dp(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.Float64 && field.Kind() != reflect.Float32 {
		return false
	}
	return HasAtMostTwoDecimals(field.Float())
}

// validateNotBlank rechaza strings vacíos o solo con espacios
func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// validateUniqueSizes exige etiquetas de talla únicas sin distinguir mayúsculas
func validateUniqueSizes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	sizes, ok := field.Interface().([]ProductSize)
	if !ok {
		return false
	}
	return UniqueSizeLabels(sizes)
}

// HasAtMostTwoDecimals reporta si v no tiene más de dos dígitos fraccionarios
func HasAtMostTwoDecimals(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}

// UniqueSizeLabels reporta si no hay etiquetas repetidas (case-insensitive)
func UniqueSizeLabels(sizes []ProductSize) bool {
	seen := make(map[string]struct{}, len(sizes))
	for _, s := range sizes {
		key := strings.ToLower(strings.TrimSpace(s.Size))
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// jsonFieldName hace que los errores usen el nombre JSON del campo
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// DescribeValidation traduce validator.ValidationErrors a un mapa campo -> mensaje.
// Devuelve nil si err no es un error de validación.
func DescribeValidation(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = describe(fe)
	}
	return fields
}

// fieldPath quita el nombre del struct raíz: "items[0].quantity"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "notblank":
		return "must not be blank"
	case "price2dp":
		return "must have at most two decimal places"
	case "uniquesizes":
		return "size labels must be unique"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
