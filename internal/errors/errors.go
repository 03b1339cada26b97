package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrTransport indicates the request never produced a response (network, TLS, timeout)
	ErrTransport = errors.New("transport error")

	// ErrUnexpectedStatus indicates a response arrived with a status outside the success set
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedResponse indicates a response body could not be parsed or lacked a required field
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyResourceList indicates there is nothing to pick from
	ErrEmptyResourceList = errors.New("empty resource list")

	// ErrInvalidInput indicates the user typed something that does not answer the prompt
	ErrInvalidInput = errors.New("invalid input")

	// ErrInputClosed indicates standard input ended while a prompt was waiting
	ErrInputClosed = errors.New("input closed")

	// ErrNotGitRepository indicates the target path is not a git repository
	ErrNotGitRepository = errors.New("not a git repository")

	// ErrGitOperationFailed indicates a git command returned an error
	ErrGitOperationFailed = errors.New("git operation failed")

	// ErrInvalidConfiguration indicates an invalid or missing configuration value
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidFlag indicates an invalid command-line flag or flag value
	ErrInvalidFlag = errors.New("invalid command-line flag")
)

// Exit codes returned by the binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
	ExitNothingToDo = 3
)

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ExitCode maps an error returned by the application to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case Is(err, ErrEmptyResourceList):
		return ExitNothingToDo
	case Is(err, ErrInvalidConfiguration), Is(err, ErrInvalidFlag):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// GitError represents an error that occurred during a Git operation.
// It captures the command details, underlying error, and command output.
type GitError struct {
	Operation string
	Args      []string
	Err       error
	Output    string
}

// Error implements the error interface with a detailed, user-friendly error message.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Operation)
	if e.Output != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Output)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GitError) Unwrap() error {
	return e.Err
}

// NewGitError creates a new GitError with the given parameters.
func NewGitError(operation string, args []string, err error, output string) *GitError {
	return &GitError{
		Operation: operation,
		Args:      args,
		Err:       err,
		Output:    output,
	}
}

// StatusError is returned when the API answered with a status code
// the caller does not accept for the operation.
type StatusError struct {
	Method     string
	Route      string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %v %d", e.Method, e.Route, ErrUnexpectedStatus, e.StatusCode)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

// Unwrap makes every StatusError match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// NewStatusError creates a new StatusError. Long bodies are truncated.
func NewStatusError(method, route string, statusCode int, body string) *StatusError {
	const maxBody = 200
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	return &StatusError{
		Method:     method,
		Route:      route,
		StatusCode: statusCode,
		Body:       body,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}
