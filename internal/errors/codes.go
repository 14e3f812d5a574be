package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig       ErrorCode = "invalid_configuration"
	ErrBindFlags           ErrorCode = "bind_flags_failed"
	ErrReadConfig          ErrorCode = "read_config_failed"
	ErrInvalidSamplingRate ErrorCode = "invalid_sampling_rate"
	ErrInvalidOutput       ErrorCode = "invalid_output_format"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Input errors
	ErrReadInput   ErrorCode = "read_input_failed"
	ErrDecodeInput ErrorCode = "decode_input_failed"

	// Signal errors
	ErrInsufficientData  ErrorCode = "insufficient_data"
	ErrSignalTooShort    ErrorCode = "signal_too_short"
	ErrInsufficientPeaks ErrorCode = "insufficient_peaks"
	ErrNoFacialData      ErrorCode = "no_facial_data"

	// Session errors
	ErrSessionNotFound ErrorCode = "session_not_found"

	// Transport errors
	ErrConnect   ErrorCode = "connect_failed"
	ErrSubscribe ErrorCode = "subscribe_failed"
	ErrPublish   ErrorCode = "publish_failed"

	// Operation errors
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:            "Internal error occurred",
	ErrInvalidArgument:     "Invalid argument provided",
	ErrNotImplemented:      "Operation not implemented",
	ErrUnavailable:         "Service unavailable",
	ErrInvalidConfig:       "Invalid configuration",
	ErrBindFlags:           "Failed to bind flags",
	ErrReadConfig:          "Failed to read config file",
	ErrInvalidSamplingRate: "Sampling rate must be a positive number",
	ErrInvalidOutput:       "Invalid output format",
	ErrInvalidLogLevel:     "Invalid log level",
	ErrInitFailed:          "Initialization failed",
	ErrShutdownFailed:      "Shutdown failed",
	ErrAlreadyRunning:      "Another instance is already running",
	ErrReadInput:           "Failed to read input",
	ErrDecodeInput:         "Failed to decode input",
	ErrInsufficientData:    "Need at least 2 RR intervals for HRV calculation",
	ErrSignalTooShort:      "Signal too short for respiratory rate calculation",
	ErrInsufficientPeaks:   "Not enough respiratory peaks detected",
	ErrNoFacialData:        "No facial data available",
	ErrSessionNotFound:     "Session not found",
	ErrConnect:             "Failed to connect",
	ErrSubscribe:           "Failed to subscribe",
	ErrPublish:             "Failed to publish",
	ErrOperationFailed:     "Operation failed",
	ErrTimeout:             "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
