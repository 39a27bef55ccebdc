package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Códigos de error de la aplicación. Cada uno se traduce a un status HTTP.
const (
	EINVALID       = "invalid"       // 400
	EUNPROCESSABLE = "unprocessable" // 422
	ENOTFOUND      = "not_found"     // 404
	EINTERNAL      = "internal"      // 500
)

const internalMessage = "An internal error occurred. Please try again later."

// Error es el error tipado que cruzan repositorios, servicios y handlers.
type Error struct {
	// Code es el código legible por máquina (EINVALID, ENOTFOUND, ...).
	Code string

	// Op es la operación donde ocurrió el error (ej. "order.create"). Solo para logs.
	Op string

	// Message es seguro para mostrar al cliente, excepto en EINTERNAL.
	Message string

	// Refs lista los identificadores referenciados que no existen.
	Refs []string

	// Fields detalla los errores de validación por campo.
	Fields map[string]string

	// Err es la causa original, si existe.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid construye un error de entrada inválida.
func Invalid(op, format string, args ...any) error {
	return &Error{Code: EINVALID, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Unprocessable construye un error de validación de esquema (422).
func Unprocessable(op string, err error) error {
	return &Error{Code: EUNPROCESSABLE, Op: op, Message: err.Error(), Err: err}
}

// Validation construye un error de validación con detalle por campo.
// code suele ser EINVALID o EUNPROCESSABLE.
func Validation(code, op string, fields map[string]string) error {
	return &Error{Code: code, Op: op, Message: "validation failed", Fields: fields}
}

// NotFound construye un error de recurso inexistente.
// Ejemplo: apperrors.NotFound("product.get", "product", id)
func NotFound(op, resource, id string) error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
		Refs:    []string{id},
	}
}

// MissingRefs construye un ENOTFOUND que nombra todas las referencias faltantes.
func MissingRefs(op, resource string, ids []string) error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s not found: %s", resource, strings.Join(ids, ", ")),
		Refs:    append([]string(nil), ids...),
	}
}

// Internal envuelve un fallo inesperado (normalmente del storage).
func Internal(err error, op, message string) error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}

// Code devuelve el código de err, o EINTERNAL si no es un *Error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// Message devuelve un mensaje apto para el cliente. Los errores internos se ocultan.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return internalMessage
}

// Refs devuelve las referencias faltantes asociadas a err, si las hay.
func Refs(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Refs
	}
	return nil
}

// FieldErrors devuelve el detalle por campo de err, si lo hay.
func FieldErrors(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Op devuelve la operación asociada a err (para logs).
func Op(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Is reporta si err tiene el código dado.
func Is(err error, code string) bool {
	return Code(err) == code
}
