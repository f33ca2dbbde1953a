package syncjob

// ErrorCode is the domain-typed error vocabulary of the sync trigger
// endpoint. Callers render actionable messages per code instead of a
// generic failure.
type ErrorCode string

const (
	CodeMissingCredentials ErrorCode = "missing_credentials"
	CodeTimeout            ErrorCode = "timeout"
	CodeUnknown            ErrorCode = "unknown"
)

// DomainError carries a stable code plus a human-readable message.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	// ErrMissingCredentials means the store has no external integration
	// configured; the caller should point the operator at the setup page.
	ErrMissingCredentials = &DomainError{
		Code:    CodeMissingCredentials,
		Message: "integração externa não configurada para esta loja",
	}

	// ErrNoSession means startSync was reached without an authenticated
	// store context.
	ErrNoSession = &DomainError{
		Code:    CodeUnknown,
		Message: "sessão de loja ausente",
	}
)
