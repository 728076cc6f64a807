package models

// Admin portal verification
type VerifyAdminRequest struct {
	PasswordHash string `json:"passwordHash"`
}

type VerifyAdminResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

// Comment posting
type CreateCommentRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Admin moderation
type ClearCommentsResponse struct {
	Cleared int `json:"cleared"`
}

// Diagnostics
type HealthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Comments    int    `json:"comments"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
