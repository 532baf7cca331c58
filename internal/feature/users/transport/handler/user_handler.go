package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user_service/internal/feature/users/domain/entity"
	"user_service/internal/feature/users/transport/http/dto"
)

// UserUsecase defines the account operations the transport layer depends on.
// Following Go convention, the interface is defined by the consumer (handler)
// rather than the provider (usecase).
type UserUsecase interface {
	// Register creates a new account and returns the saved user.
	Register(ctx context.Context, name, email, password string) (*entity.User, error)
	// Login authenticates a user and returns the user plus a bearer token.
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	// GetUserByID fetches a single user by ID.
	GetUserByID(ctx context.Context, id uint64) (*entity.User, error)
	// GetAllUsers returns every user in ascending ID order.
	GetAllUsers(ctx context.Context) ([]entity.User, error)
	// DeleteUser removes the user with the given ID.
	DeleteUser(ctx context.Context, id uint64) error
}

// UserHandler handles HTTP requests for account operations.
// It depends on the UserUsecase interface and processes JSON requests and
// responses.
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler creates a new UserHandler instance.
// Constructor for dependency injection.
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/users/register.
// - binds the request JSON to RegisterRequest; binding failures return 400
// - duplicate email returns 409
// - success returns 201 with the user projection
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		writeBindingError(c, err)
		return
	}

	slog.Info("received registration request", "email", req.Email, "remote_addr", c.ClientIP())
	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}

	slog.Info("user registered", "id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles POST /api/users/login.
// - binding failures return 400
// - authentication failures return 401 with a fixed message
// - success returns 200 with a bearer token
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		writeBindingError(c, err)
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}

	slog.Info("user login successful", "id", user.ID, "email", user.Email)
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		Type:  dto.BearerType,
		Email: user.Email,
		Role:  string(user.Role),
	})
}

// GetUserByID handles GET /api/users/:id.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetAllUsers handles GET /api/users. The store's ascending-id order is
// preserved in the response.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.users.GetAllUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	// Non-nil slice so an empty store serializes as [] rather than null.
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteUser handles DELETE /api/users/:id.
// The first delete of an id returns 204; a repeat returns 404.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	slog.Info("received delete request", "id", id, "remote_addr", c.ClientIP())
	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Health handles GET /healthz for liveness probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathID parses the :id path parameter. A non-numeric id gets the 400
// envelope and returns ok=false.
func pathID(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeEnvelope(c, http.StatusBadRequest, fmt.Sprintf("Invalid user id: %s", raw))
		return 0, false
	}
	return id, true
}
