package dto

import "encoding/json"

type CreateUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	IsAdmin    bool   `json:"is_admin"`
	Course     string `json:"course,omitempty"`
	Department string `json:"department,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

type SendResetRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse carries the platform's error payload unchanged.
type UpstreamErrorResponse struct {
	Error json.RawMessage `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
