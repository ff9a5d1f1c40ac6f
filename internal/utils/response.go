package utils

// SuccessResponse carries the generated text back to the caller.
type SuccessResponse struct {
	Response string `json:"response"`
}

// ErrorResponse carries a failure description. The message is passed through
// verbatim from whatever failed.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewSuccessResponse creates a new SuccessResponse instance.
func NewSuccessResponse(text string) SuccessResponse {
	return SuccessResponse{Response: text}
}

// NewErrorResponse creates a new ErrorResponse instance.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
