package model

// Response is the success envelope.
type Response struct {
	Data           any    `json:"data"`
	SuccessMessage string `json:"success_message,omitempty"`
	WarningMessage string `json:"warning_message,omitempty"`
}

// ErrorResponse is the error envelope. Code duplicates the HTTP status so
// clients reading only the body can still branch on it.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
