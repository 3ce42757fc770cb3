package errors

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrorCode represents different types of degradations in setproctitle
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	// No title facility exists on this platform.
	ErrCodeUnsupportedPlatform
	// The requested title was longer than the writable region.
	ErrCodeCapacityExceeded
	// The title contained characters the target encoding cannot express.
	ErrCodeEncodingUnrepresentable
	// The process image or the calling thread could not be located.
	ErrCodeResolutionFailure
	// A native kernel or library call reported a failure.
	ErrCodeNativeCall
)

// Sentinel causes wrapped by TitleError.
var (
	ErrUnsupported     = errors.New("no process title facility on this platform")
	ErrNoArgv          = errors.New("process argument vector not available")
	ErrNotContiguous   = errors.New("argument strings are not contiguous")
	ErrTruncated       = errors.New("title truncated to capacity")
	ErrUnrepresentable = errors.New("title contains unrepresentable characters")
)

// TitleError describes why a title operation degraded. It is never returned
// to callers of the public API; it travels inside a Result for logging.
type TitleError struct {
	Op      string    // Operation that degraded (e.g., "locate", "write_inplace")
	Code    ErrorCode // Degradation classification
	Err     error     // Underlying error
	Context string    // Additional context (optional)
}

// Error implements the error interface
func (e *TitleError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error wrapping support
func (e *TitleError) Unwrap() error {
	return e.Err
}

// GetCode returns the degradation classification code
func (e *TitleError) GetCode() ErrorCode {
	return e.Code
}

// String returns the log label for a code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnsupportedPlatform:
		return "UNSUPPORTED_PLATFORM"
	case ErrCodeCapacityExceeded:
		return "CAPACITY_EXCEEDED"
	case ErrCodeEncodingUnrepresentable:
		return "ENCODING_UNREPRESENTABLE"
	case ErrCodeResolutionFailure:
		return "RESOLUTION_FAILURE"
	case ErrCodeNativeCall:
		return "NATIVE_CALL"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of a title operation. It is always OK from the
// caller's point of view; Cause records the first degradation, if any.
type Result struct {
	Written int         // Bytes (or code units) actually written
	Cause   *TitleError // Diagnostic cause, nil when nothing degraded
}

// OK always reports true: title operations never fail.
func (r Result) OK() bool {
	return true
}

// Degraded reports whether the operation fell back to a weaker guarantee.
func (r Result) Degraded() bool {
	return r.Cause != nil
}

// With records cause unless an earlier one is already present.
func (r Result) With(cause *TitleError) Result {
	if r.Cause == nil {
		r.Cause = cause
	}
	return r
}

// Handler logs degradations. It never alters control flow.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a handler that logs to logger. A nil logger discards.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Handle logs err at debug level, wrapping foreign errors as unknown.
func (h *Handler) Handle(err error) {
	if err == nil {
		return
	}

	var te *TitleError
	if !errors.As(err, &te) {
		te = &TitleError{
			Op:   "unknown_operation",
			Code: ErrCodeUnknown,
			Err:  err,
		}
	}

	h.logger.Debug("title operation degraded",
		zap.String("code", te.Code.String()),
		zap.String("op", te.Op),
		zap.String("context", te.Context),
		zap.Error(te.Err),
	)
}

// HandleResult logs the cause carried by r, if any.
func (h *Handler) HandleResult(r Result) {
	if r.Cause != nil {
		h.Handle(r.Cause)
	}
}

// Helper functions for creating common error types

// NewUnsupportedError records that op has no facility on this platform.
func NewUnsupportedError(op string) *TitleError {
	return &TitleError{
		Op:   op,
		Code: ErrCodeUnsupportedPlatform,
		Err:  ErrUnsupported,
	}
}

// NewCapacityError records a silent truncation.
func NewCapacityError(requested, capacity int) *TitleError {
	return &TitleError{
		Op:      "write_title",
		Code:    ErrCodeCapacityExceeded,
		Err:     ErrTruncated,
		Context: fmt.Sprintf("requested: %d, capacity: %d", requested, capacity),
	}
}

// NewEncodingError records that characters were replaced during encoding.
func NewEncodingError(encoding string, err error) *TitleError {
	if err == nil {
		err = ErrUnrepresentable
	}
	return &TitleError{
		Op:      "encode_title",
		Code:    ErrCodeEncodingUnrepresentable,
		Err:     err,
		Context: fmt.Sprintf("encoding: %s", encoding),
	}
}

// NewResolutionError records that the process image or thread could not be
// located.
func NewResolutionError(op string, err error) *TitleError {
	return &TitleError{
		Op:   op,
		Code: ErrCodeResolutionFailure,
		Err:  err,
	}
}

// NewNativeCallError records a failed kernel or library call.
func NewNativeCallError(call string, err error) *TitleError {
	return &TitleError{
		Op:      "native_call",
		Code:    ErrCodeNativeCall,
		Err:     err,
		Context: call,
	}
}
