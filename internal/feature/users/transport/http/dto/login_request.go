package dto

// LoginRequest represents the request body for the /api/users/login endpoint.
// The password carries no length constraint here: login must not leak the
// registration policy.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
