package protocol

// ErrorCode identifies the type of error reported to the client.
type ErrorCode string

const (
	ErrUnknown       ErrorCode = "unknown"
	ErrInvalidFrame  ErrorCode = "invalid_frame"
	ErrInvalidTarget ErrorCode = "invalid_target"
	ErrRateLimited   ErrorCode = "rate_limited"
	ErrServerError   ErrorCode = "server_error"
)

// ErrorMessage is sent to the client when the server rejects a frame.
type ErrorMessage struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// NewError creates an error message.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}
