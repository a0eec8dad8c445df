// Package apierror holds the JSON envelopes of every 4xx/5xx answer. Only
// these safe messages reach clients; diagnostic errors stay in the logs.
package apierror

// APIError is the canonical error envelope: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries one message per offending field, keyed by the
// field's JSON name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validacao", Fields: fields}
}

// Campo is a validation failure on a single field.
func Campo(nome, msg string) *ValidationError {
	return NewValidation(map[string]string{nome: msg})
}
