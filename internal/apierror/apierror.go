// Package apierror define el sobre de error que devuelve la API. Todo 4xx/5xx
// pasa por aquí para que el cliente reciba siempre la misma forma y nunca un
// error interno en crudo.
package apierror

// APIError es el cuerpo de cualquier respuesta de error.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError añade el desglose por campo cuando el binding o las reglas
// de formato (IBAN, CIF, PAN) rechazan la petición.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
