// Package apigw provides the API Gateway request/response plumbing shared by
// every interactive Lambda: CORS headers, JSON response building, caller
// identity extraction, and a closed error-kind enumeration mapped to HTTP
// status codes. Raw collaborator errors are logged server-side and never
// returned to the client.
package apigw

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// Allow-method lists used by the handlers. Every response carries the
// wildcard origin plus the method list appropriate to the endpoint.
const (
	MethodsGet     = "GET, OPTIONS"
	MethodsPost    = "POST, OPTIONS"
	MethodsGetPost = "GET, POST, OPTIONS"
	MethodsDelete  = "DELETE, POST, OPTIONS"
)

// Kind classifies a handler failure. The set is closed: every error a
// handler returns to the gateway is one of these, so the client-visible
// status codes and messages are enumerable.
type Kind int

const (
	// KindValidation is a missing or malformed required field.
	KindValidation Kind = iota
	// KindNotFound is a requested record that does not exist.
	KindNotFound
	// KindUnauthenticated is an absent or empty identity claim.
	KindUnauthenticated
	// KindInternal is any collaborator or unexpected failure.
	KindInternal
)

// StatusCode maps the kind to its HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a handler failure with a client-safe message and an optional
// wrapped cause. The cause is logged, never serialized.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a 400-kind error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NotFound creates a 404-kind error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Internal wraps a collaborator failure as a 500-kind error.
// clientMsg is what the caller sees; err is logged server-side.
func Internal(clientMsg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: clientMsg, Err: err}
}

// Headers returns the fixed CORS header set with the given method allow-list.
func Headers(allowMethods string) map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": allowMethods,
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// Respond builds a JSON API Gateway response with CORS headers.
func Respond(status int, allowMethods string, body interface{}) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response body")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    Headers(allowMethods),
			Body:       `{"message":"internal error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    Headers(allowMethods),
		Body:       string(data),
	}
}

// RespondError maps an error to its kind's status code and client message.
// Non-*Error values are treated as internal failures. The full error chain
// is logged here so handlers don't have to.
func RespondError(allowMethods string, err error) events.APIGatewayProxyResponse {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = &Error{Kind: KindInternal, Msg: "internal error", Err: err}
	}

	evt := log.Error()
	if apiErr.Kind == KindValidation || apiErr.Kind == KindNotFound {
		evt = log.Warn()
	}
	evt.Err(err).Int("status", apiErr.Kind.StatusCode()).Msg("Request failed")

	return Respond(apiErr.Kind.StatusCode(), allowMethods, map[string]string{
		"message": apiErr.Msg,
	})
}
