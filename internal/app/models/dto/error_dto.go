package dto

// ErrorResponse is the wire shape of every error reply: a short error label
// plus an optional human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse creates an error response with just the error label.
func NewErrorResponse(errText string) ErrorResponse {
	return ErrorResponse{Error: errText}
}

// NewErrorResponseWithMessage creates an error response carrying extra detail.
func NewErrorResponseWithMessage(errText, message string) ErrorResponse {
	return ErrorResponse{Error: errText, Message: message}
}
