package dto

import (
	"time"

	"user_service/internal/feature/users/domain/entity"
)

// UserResponse is the public projection of a user. The password hash is
// absent by construction.
type UserResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse projects a domain user onto the response shape.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
