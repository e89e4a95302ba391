// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrQueueEmpty is returned when queue operations are attempted on an empty queue.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrNoSelection is returned when an action needs a selected row and none exists.
	ErrNoSelection = errors.New("nothing selected")

	// ErrNothingPlaying is returned when an operation needs a loaded track.
	ErrNothingPlaying = errors.New("nothing is playing")

	// ErrInvalidVolume is returned when the volume is not a finite number.
	ErrInvalidVolume = errors.New("invalid volume")

	// ErrUnsupportedFormat is returned when the audio stream cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrAudioUnavailable is returned when the build has no audio output.
	ErrAudioUnavailable = errors.New("audio output not available in this build")

	// ErrNotInitialized is returned when an operation is attempted on an uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrEmptyQuery is returned for blank search queries.
	ErrEmptyQuery = errors.New("empty search query")
)

// APIErrorKind classifies media server failures.
type APIErrorKind int

const (
	// APIConnectivity covers unreachable hosts and non-success HTTP statuses.
	APIConnectivity APIErrorKind = iota
	// APIProtocol covers malformed or unexpected response bodies.
	APIProtocol
	// APIServer covers well-formed responses whose status is not "ok".
	APIServer
)

func (k APIErrorKind) String() string {
	switch k {
	case APIConnectivity:
		return "connectivity"
	case APIProtocol:
		return "protocol"
	case APIServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError represents a failed call to the media server.
type APIError struct {
	Kind    APIErrorKind
	Op      string // Endpoint that failed (e.g., "getArtists")
	Code    int    // HTTP status or server error code (if any)
	Message string
	Err     error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (code: %d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(kind APIErrorKind, op string, code int, message string, err error) *APIError {
	return &APIError{
		Kind:    kind,
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AudioEngineError represents an error from the audio sink.
// This wraps low-level decoder and device errors with additional context.
type AudioEngineError struct {
	Op      string // Operation that failed (e.g., "decode", "init", "play")
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AudioEngineError) Error() string {
	return fmt.Sprintf("audio %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioEngineError) Unwrap() error {
	return e.Err
}

// NewAudioEngineError creates a new AudioEngineError.
func NewAudioEngineError(op, message string, err error) *AudioEngineError {
	return &AudioEngineError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// BusError represents a failure of the desktop media-control bus.
type BusError struct {
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BusError) Error() string {
	return fmt.Sprintf("media bus %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *BusError) Unwrap() error {
	return e.Err
}

// NewBusError creates a new BusError.
func NewBusError(op, message string, err error) *BusError {
	return &BusError{Op: op, Message: message, Err: err}
}

// ConfigError represents a failure to read or write the config file.
type ConfigError struct {
	Op      string // "load" or "save"
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s failed for '%s': %s", e.Op, e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(op, path, message string, err error) *ConfigError {
	return &ConfigError{Op: op, Path: path, Message: message, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlaybackService", "LibraryService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// UserMessage returns the text shown to the user for err: the innermost
// server or API message when there is one, otherwise err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var audioErr *AudioEngineError
	if errors.As(err, &audioErr) {
		return audioErr.Error()
	}
	return err.Error()
}
