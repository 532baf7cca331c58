package dto

// BearerType is the token type carried in every AuthResponse.
const BearerType = "Bearer"

// AuthResponse is returned on successful login. Downstream services present
// the token in the Authorization header.
type AuthResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
