package domain

import (
	"context"
	"errors"
)

// Sentinel errors for the audit core. Callers wrap them with context and match
// with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed reasoning response")
	ErrAuditExecution    = errors.New("audit execution failed")
	ErrCatalogIntegrity  = errors.New("catalog integrity violated")
)

const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeAuditExecution    = "AUDIT_EXECUTION_FAILED"
	CodeCatalogIntegrity  = "CATALOG_INTEGRITY"
	CodeCancelled         = "CANCELLED"
	CodeInternal          = "INTERNAL"
)

// ErrorCode maps err to its stable wire code. The most specific sentinel wins:
// a parse failure surfaced as an execution error reports MALFORMED_RESPONSE.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrMalformedResponse):
		return CodeMalformedResponse
	case errors.Is(err, ErrAuditExecution):
		return CodeAuditExecution
	case errors.Is(err, ErrCatalogIntegrity):
		return CodeCatalogIntegrity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	default:
		return CodeInternal
	}
}
