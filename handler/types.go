// Package handler carries requests from platform adapters (HTTP, Lambda)
// through the middleware chain to the registered operations.
package handler

import (
	"encoding/json"
	"time"

	"accessaudit/domain/auth"
)

// Request is the platform-neutral envelope for one operation invocation.
// Caller is populated by the adapter from the identity collaborator's
// claims before the request enters the chain.
type Request struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Caller    auth.Identity   `json:"caller"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func (r *Request) Unmarshal(v interface{}) error {
	return json.Unmarshal(r.Payload, v)
}

type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo is the structured error surface: enough detail to distinguish
// kind, plus the expected/actual pair on invalid transitions so clients can
// refresh and react instead of blindly retrying.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Expected  string `json:"expected,omitempty"`
	Actual    string `json:"actual,omitempty"`
	Retryable bool   `json:"retryable"`
}

func NewSuccessResponse(data interface{}) (Response, error) {
	marshaled, err := json.Marshal(data)
	if err != nil {
		return Response{}, err
	}
	return Response{Success: true, Data: marshaled}, nil
}

func NewErrorResponse(code, message string, retryable bool) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}
