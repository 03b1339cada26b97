// Package errors provides error handling utilities for gitbchq.
//
// It wraps the standard library errors package and adds the sentinel
// errors and typed errors used across the application:
//
//   - ErrTransport, ErrUnexpectedStatus and ErrMalformedResponse for API calls
//   - ErrEmptyResourceList, ErrInvalidInput and ErrInputClosed for the workflow
//   - ErrGitOperationFailed and ErrNotGitRepository for git invocations
//   - ErrInvalidConfiguration and ErrInvalidFlag for startup
//
// Typed errors (GitError, StatusError, ConfigError) carry context and
// unwrap to a sentinel, so callers can branch with Is and As:
//
//	var statusErr *errors.StatusError
//	if errors.As(err, &statusErr) {
//	    fmt.Println(statusErr.StatusCode)
//	}
//
// ExitCode converts the error returned by the application into the
// process exit status.
package errors
