package errors

import "fmt"

// ErrorCode represents the CLI error codes
type ErrorCode int

const (
	// CodeGeneric represents a generic failure (code 1)
	CodeGeneric ErrorCode = 1
	// CodeNotInProject represents commands executed outside a project directory (code 2)
	CodeNotInProject ErrorCode = 2
	// CodeSession represents gateway session failures: connect, health check,
	// or a connection lost mid-operation (code 3)
	CodeSession ErrorCode = 3
	// CodeIO represents local filesystem failures (code 4)
	CodeIO ErrorCode = 4
	// CodeNotFound represents a missing local file (code 5)
	CodeNotFound ErrorCode = 5
	// CodeRemoteNotFound represents a missing remote letter entry (code 6)
	CodeRemoteNotFound ErrorCode = 6
	// CodeRemoteRejected represents a remote-side validation or write failure (code 7)
	CodeRemoteRejected ErrorCode = 7
	// CodeRenderFailed represents a test-render failure for one document/language pair (code 8)
	CodeRenderFailed ErrorCode = 8
)

// CLIError represents a CLI error with a specific error code
type CLIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewGenericError creates a new generic error (code 1)
func NewGenericError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeGeneric,
		Message: message,
		Cause:   cause,
	}
}

// NewContextError creates a new project-context error (code 2)
func NewContextError(message string) *CLIError {
	return &CLIError{
		Code:    CodeNotInProject,
		Message: message,
	}
}

// NewSessionError creates a new session error (code 3). Session errors are the
// only kind that abort the remaining entries of a batch operation.
func NewSessionError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeSession,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates a new local filesystem error (code 4)
func NewIOError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeIO,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new missing-local-file error (code 5)
func NewNotFoundError(message string) *CLIError {
	return &CLIError{
		Code:    CodeNotFound,
		Message: message,
	}
}

// NewRemoteNotFoundError creates a new missing-remote-entry error (code 6)
func NewRemoteNotFoundError(message string) *CLIError {
	return &CLIError{
		Code:    CodeRemoteNotFound,
		Message: message,
	}
}

// NewRemoteRejectedError creates a new remote-rejection error (code 7)
func NewRemoteRejectedError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeRemoteRejected,
		Message: message,
		Cause:   cause,
	}
}

// NewRenderError creates a new render-failure error (code 8)
func NewRenderError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeRenderFailed,
		Message: message,
		Cause:   cause,
	}
}

// codeOf extracts the ErrorCode from an error chain, or CodeGeneric.
func codeOf(err error) ErrorCode {
	for err != nil {
		if cliErr, ok := err.(*CLIError); ok {
			return cliErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return CodeGeneric
		}
		err = u.Unwrap()
	}
	return CodeGeneric
}

// IsSession reports whether err is a session-level failure. Callers use this
// to decide between skipping one entry and abandoning the whole batch.
func IsSession(err error) bool {
	return err != nil && codeOf(err) == CodeSession
}

// IsNotFound reports whether err is a missing-local-file failure.
func IsNotFound(err error) bool {
	return err != nil && codeOf(err) == CodeNotFound
}

// IsRemoteNotFound reports whether err is a missing-remote-entry failure.
func IsRemoteNotFound(err error) bool {
	return err != nil && codeOf(err) == CodeRemoteNotFound
}

// IsRemoteRejected reports whether err is a remote-side rejection.
func IsRemoteRejected(err error) bool {
	return err != nil && codeOf(err) == CodeRemoteRejected
}

// IsRenderFailed reports whether err is a render failure.
func IsRenderFailed(err error) bool {
	return err != nil && codeOf(err) == CodeRenderFailed
}
