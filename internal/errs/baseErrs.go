package errs

import "fmt"

// FileReferenceExpiredErr signals that the media file reference went stale
// and the message must be refetched before another attempt.
type FileReferenceExpiredErr struct {
	Err error
}

func (e *FileReferenceExpiredErr) Error() string {
	return fmt.Sprintf("file reference expired: %v", e.Err)
}
func (e *FileReferenceExpiredErr) Unwrap() error { return e.Err }

// RequestTimeoutErr signals a transfer that timed out or was flood-waited;
// recoverable by backoff.
type RequestTimeoutErr struct {
	Err error
}

func (e *RequestTimeoutErr) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}
func (e *RequestTimeoutErr) Unwrap() error { return e.Err }

// BadRequestErr signals a malformed request rejected by the server;
// never retried.
type BadRequestErr struct {
	Err error
}

func (e *BadRequestErr) Error() string {
	return fmt.Sprintf("bad request: %v", e.Err)
}
func (e *BadRequestErr) Unwrap() error { return e.Err }

// UnauthorizedErr signals an invalid or revoked session.
type UnauthorizedErr struct {
	Err error
}

func (e *UnauthorizedErr) Error() string {
	return fmt.Sprintf("unauthorized: %v", e.Err)
}
func (e *UnauthorizedErr) Unwrap() error { return e.Err }

// FileTooLargeErr signals a file above the platform download limit.
type FileTooLargeErr struct {
	Err error
}

func (e *FileTooLargeErr) Error() string {
	return fmt.Sprintf("file too large: %v", e.Err)
}
func (e *FileTooLargeErr) Unwrap() error { return e.Err }

// NetworkErr signals a failed connection to the platform.
type NetworkErr struct {
	Err error
}

func (e *NetworkErr) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}
func (e *NetworkErr) Unwrap() error { return e.Err }

// ConfigInvalidErr signals a configuration document with invalid values.
type ConfigInvalidErr struct {
	Err error
}

func (e *ConfigInvalidErr) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}
func (e *ConfigInvalidErr) Unwrap() error { return e.Err }
