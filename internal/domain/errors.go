package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Códigos estables de error. Los clientes y los tests dependen de estos valores literales.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeAuthorization = "AUTHORIZATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT_ERROR"

	CodeAuthentication = "AUTHENTICATION_ERROR"
)

// Errores de dominio sin contexto (se envuelven con AppError en la capa de aplicación).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// AppError es el error tipado que cruza la frontera servicio → controlador.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Details    any
	cause      error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap permite errors.Is contra el sentinel de origen.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetails devuelve una copia con detalles adicionales (p. ej. errores por campo).
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewValidationError entrada malformada o incompleta (400).
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusBadRequest,
		cause:      ErrInvalidInput,
	}
}

// NewAuthorizationError el actor no tiene permiso para la acción sobre el recurso (403).
func NewAuthorizationError(format string, args ...any) *AppError {
	return &AppError{
		Code:       CodeAuthorization,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusForbidden,
		cause:      ErrForbidden,
	}
}

// NewNotFoundError el recurso no existe o está eliminado lógicamente (404).
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		StatusCode: http.StatusNotFound,
		cause:      ErrNotFound,
	}
}

// NewConflictError la escritura violaría una restricción de unicidad (409).
func NewConflictError(format string, args ...any) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusConflict,
		cause:      ErrDuplicate,
	}
}

// NewAuthenticationError credenciales ausentes o inválidas (401). Sólo lo usan login y el middleware.
func NewAuthenticationError(format string, args ...any) *AppError {
	return &AppError{
		Code:       CodeAuthentication,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusUnauthorized,
		cause:      ErrUnauthorized,
	}
}

// AsAppError extrae el AppError de la cadena, si existe.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func IsValidation(err error) bool    { return hasCode(err, CodeValidation) }
func IsAuthorization(err error) bool { return hasCode(err, CodeAuthorization) }
func IsNotFound(err error) bool      { return hasCode(err, CodeNotFound) }
func IsConflict(err error) bool      { return hasCode(err, CodeConflict) }
