package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// RuleError es un error de dominio con mensaje legible para el cliente.
// Kind es uno de los errores sentinela; errors.Is(err, domain.ErrInvalidInput) funciona sobre él.
type RuleError struct {
	Kind    error
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func (e *RuleError) Unwrap() error { return e.Kind }

// Validation entrada malformada o estructuralmente inválida (HTTP 400).
func Validation(format string, args ...any) error {
	return &RuleError{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound la categoría o su padre no existe (HTTP 404).
func NotFound(format string, args ...any) error {
	return &RuleError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict la tupla de unicidad ya está ocupada (HTTP 409).
func Conflict(format string, args ...any) error {
	return &RuleError{Kind: ErrDuplicate, Message: fmt.Sprintf(format, args...)}
}

// Forbidden el actor no tiene el rol requerido (HTTP 403).
func Forbidden(format string, args ...any) error {
	return &RuleError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}
