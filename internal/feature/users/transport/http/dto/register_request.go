// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

// RegisterRequest represents the request body for the /api/users/register endpoint.
// It uses Gin's binding tags for validation (required fields, email format,
// name length, minimum password length).
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
