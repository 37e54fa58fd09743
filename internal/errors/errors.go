// Package errors provides standardized error handling for fetchlist.
// It defines the error kinds, typed wrappers, and helpers used to create,
// wrap, and classify errors across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrInvalidConfig  = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrConfigNotFound = NewConfigError("configuration not found", "", ConfigNotFound, nil)
	ErrNotAnArray     = New("response body is not a JSON array")
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Network error kinds
	TransportFailed
	BadStatus
	DecodeFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case TransportFailed:
		return "transport"
	case BadStatus:
		return "status"
	case DecodeFailed:
		return "decode"
	case InvalidConfig:
		return "invalid_config"
	case ConfigNotFound:
		return "config_not_found"
	default:
		return "unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// NetworkError represents any failure while fetching the remote list:
// transport errors, non-2xx statuses and undecodable bodies.
type NetworkError struct {
	ApplicationError
	url    string
	status int
}

// NewNetworkError creates a new network error
func NewNetworkError(msg string, url string, kind ErrorKind, err error) *NetworkError {
	return &NetworkError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		url: url,
	}
}

// WithStatus records the HTTP status code that caused the error
func (e *NetworkError) WithStatus(status int) *NetworkError {
	e.status = status
	return e
}

// Error returns the network error message
func (e *NetworkError) Error() string {
	if e.url != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.url, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.url)
	}
	return e.ApplicationError.Error()
}

// URL returns the request URL associated with the error
func (e *NetworkError) URL() string {
	return e.url
}

// Status returns the HTTP status code, or 0 when no response was received
func (e *NetworkError) Status() int {
	return e.status
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsNetworkError checks if the error is any kind of network error
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// NetworkKind returns the kind of the first network error in err's chain,
// or Unknown when there is none
func NetworkKind(err error) ErrorKind {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Kind()
	}
	return Unknown
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsConfigNotFound checks if the error is a missing configuration error
func IsConfigNotFound(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == ConfigNotFound
	}
	return false
}
