package dto

import (
	"bytes"
	"encoding/json"
)

// Envelope cuerpo de respuesta exitosa: {success, data} o {success, message}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Nullable campo de patch con tres estados: ausente (Set=false), null (Set=true, Valid=false)
// o con valor (Set=true, Valid=true).
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON solo se invoca cuando la clave está presente en el cuerpo.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Valid = false
		var zero T
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Some construye un Nullable con valor (útil en tests y en el CLI).
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

// Null construye un Nullable explícitamente nulo.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}
