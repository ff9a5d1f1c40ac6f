package relay

// ProcessRequest is the body of POST /process. Prompt is a pointer so that
// "required" rejects a missing field but accepts an empty string.
type ProcessRequest struct {
	Prompt *string `json:"prompt" binding:"required"`
}
