package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user_service/internal/feature/users/domain"
	"user_service/internal/feature/users/domain/entity"
)

// mockUserUsecase is a mock implementation of the UserUsecase interface.
type mockUserUsecase struct {
	RegisterFunc    func(ctx context.Context, name, email, password string) (*entity.User, error)
	LoginFunc       func(ctx context.Context, email, password string) (*entity.User, string, error)
	GetUserByIDFunc func(ctx context.Context, id uint64) (*entity.User, error)
	GetAllUsersFunc func(ctx context.Context) ([]entity.User, error)
	DeleteUserFunc  func(ctx context.Context, id uint64) error
}

func (m *mockUserUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return nil, errors.New("register not stubbed")
}

func (m *mockUserUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", errors.New("login not stubbed")
}

func (m *mockUserUsecase) GetUserByID(ctx context.Context, id uint64) (*entity.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, &domain.NotFoundError{ID: id}
}

func (m *mockUserUsecase) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	if m.GetAllUsersFunc != nil {
		return m.GetAllUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserUsecase) DeleteUser(ctx context.Context, id uint64) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return &domain.NotFoundError{ID: id}
}

func newTestRouter(uc UserUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(uc)

	r := gin.New()
	api := r.Group("/api/users")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("", h.GetAllUsers)
	api.GET("/:id", h.GetUserByID)
	api.DELETE("/:id", h.DeleteUser)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// assertEnvelope decodes the error envelope and checks status, message and a
// fresh UTC timestamp.
func assertEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	var envelope struct {
		Timestamp time.Time `json:"timestamp"`
		Status    int       `json:"status"`
		Message   string    `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, status, w.Code)
	assert.Equal(t, status, envelope.Status)
	assert.Equal(t, message, envelope.Message)
	assert.WithinDuration(t, time.Now().UTC(), envelope.Timestamp, time.Minute)
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("successful registration returns 201 with projection", func(t *testing.T) {
		created := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		uc := &mockUserUsecase{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*entity.User, error) {
				assert.Equal(t, "Ada", name)
				assert.Equal(t, "Ada@X.io", email, "handler passes the raw email; normalization is usecase work")
				assert.Equal(t, "hunter22x", password)
				return &entity.User{
					ID: 1, Name: "Ada", Email: "ada@x.io",
					Password: "$2a$10$secret", Role: entity.RoleUser, CreatedAt: created,
				}, nil
			},
		}

		w := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/users/register",
			gin.H{"name": "Ada", "email": "Ada@X.io", "password": "hunter22x"})

		assert.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["id"])
		assert.Equal(t, "Ada", body["name"])
		assert.Equal(t, "ada@x.io", body["email"])
		assert.Equal(t, "USER", body["role"])
		assert.NotEmpty(t, body["createdAt"])
		assert.NotContains(t, body, "password", "password must never appear in responses")
		assert.NotContains(t, w.Body.String(), "secret", "stored hash must never leak")
	})

	t.Run("duplicate email returns 409 envelope", func(t *testing.T) {
		uc := &mockUserUsecase{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*entity.User, error) {
				return nil, &domain.AlreadyExistsError{Email: "ada@x.io"}
			},
		}

		w := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/users/register",
			gin.H{"name": "Ada", "email": "ada@x.io", "password": "hunter22x"})

		assertEnvelope(t, w, http.StatusConflict, "User with email ada@x.io already exists")
	})

	t.Run("field failures fold into one comma-separated 400 message", func(t *testing.T) {
		// The usecase is never reached.
		w := doJSON(t, newTestRouter(&mockUserUsecase{}), http.MethodPost, "/api/users/register",
			gin.H{"name": "", "email": "not-an-email", "password": "x"})

		assertEnvelope(t, w, http.StatusBadRequest,
			"Name is required, Email must be a valid email address, Password must be at least 8 characters")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/users/register", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newTestRouter(&mockUserUsecase{}).ServeHTTP(w, req)

		assertEnvelope(t, w, http.StatusBadRequest, "Invalid request body")
	})

	t.Run("unexpected failure returns 500 with diagnostic message", func(t *testing.T) {
		uc := &mockUserUsecase{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*entity.User, error) {
				return nil, errors.New("save user: connection refused")
			},
		}

		w := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/users/register",
			gin.H{"name": "Ada", "email": "ada@x.io", "password": "hunter22x"})

		assertEnvelope(t, w, http.StatusInternalServerError,
			"An unexpected error occurred: save user: connection refused")
	})
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("successful login returns bearer token", func(t *testing.T) {
		uc := &mockUserUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return &entity.User{ID: 1, Email: "ada@x.io", Role: entity.RoleUser}, "signed-token", nil
			},
		}

		w := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/users/login",
			gin.H{"email": "ada@x.io", "password": "hunter22x"})

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "signed-token", body["token"])
		assert.Equal(t, "Bearer", body["type"])
		assert.Equal(t, "ada@x.io", body["email"])
		assert.Equal(t, "USER", body["role"])
	})

	t.Run("unknown email and wrong password produce identical responses", func(t *testing.T) {
		uc := &mockUserUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", domain.ErrInvalidCredentials
			},
		}
		r := newTestRouter(uc)

		unknown := doJSON(t, r, http.MethodPost, "/api/users/login",
			gin.H{"email": "nobody@x.io", "password": "hunter22x"})
		wrongPw := doJSON(t, r, http.MethodPost, "/api/users/login",
			gin.H{"email": "ada@x.io", "password": "WRONG"})

		assertEnvelope(t, unknown, http.StatusUnauthorized, "Invalid email or password")
		assertEnvelope(t, wrongPw, http.StatusUnauthorized, "Invalid email or password")

		// Byte-identical except for the timestamp field.
		var a, b map[string]any
		require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(wrongPw.Body.Bytes(), &b))
		delete(a, "timestamp")
		delete(b, "timestamp")
		assert.Equal(t, a, b)
	})

	t.Run("missing password is rejected before the usecase", func(t *testing.T) {
		w := doJSON(t, newTestRouter(&mockUserUsecase{}), http.MethodPost, "/api/users/login",
			gin.H{"email": "ada@x.io"})

		assertEnvelope(t, w, http.StatusBadRequest, "Password is required")
	})
}

func TestUserHandler_GetUserByID(t *testing.T) {
	t.Run("existing user returns 200", func(t *testing.T) {
		uc := &mockUserUsecase{
			GetUserByIDFunc: func(ctx context.Context, id uint64) (*entity.User, error) {
				return &entity.User{ID: id, Name: "Ada", Email: "ada@x.io", Role: entity.RoleUser}, nil
			},
		}

		w := doJSON(t, newTestRouter(uc), http.MethodGet, "/api/users/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["id"])
	})

	t.Run("missing user returns 404 with id in message", func(t *testing.T) {
		w := doJSON(t, newTestRouter(&mockUserUsecase{}), http.MethodGet, "/api/users/999", nil)

		assertEnvelope(t, w, http.StatusNotFound, "User not found with id: 999")
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		w := doJSON(t, newTestRouter(&mockUserUsecase{}), http.MethodGet, "/api/users/abc", nil)

		assertEnvelope(t, w, http.StatusBadRequest, "Invalid user id: abc")
	})
}

func TestUserHandler_GetAllUsers(t *testing.T) {
	t.Run("returns users in store order", func(t *testing.T) {
		uc := &mockUserUsecase{
			GetAllUsersFunc: func(ctx context.Context) ([]entity.User, error) {
				return []entity.User{
					{ID: 1, Email: "a@x.io", Role: entity.RoleUser},
					{ID: 2, Email: "b@x.io", Role: entity.RoleAdmin},
				}, nil
			},
		}

		w := doJSON(t, newTestRouter(uc), http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, float64(1), body[0]["id"])
		assert.Equal(t, float64(2), body[1]["id"])
	})

	t.Run("empty store serializes as empty array", func(t *testing.T) {
		w := doJSON(t, newTestRouter(&mockUserUsecase{}), http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("delete then repeat: 204 then 404", func(t *testing.T) {
		exists := true
		uc := &mockUserUsecase{
			DeleteUserFunc: func(ctx context.Context, id uint64) error {
				if !exists {
					return &domain.NotFoundError{ID: id}
				}
				exists = false
				return nil
			},
		}
		r := newTestRouter(uc)

		first := doJSON(t, r, http.MethodDelete, "/api/users/4", nil)
		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Empty(t, first.Body.String())

		second := doJSON(t, r, http.MethodDelete, "/api/users/4", nil)
		assertEnvelope(t, second, http.StatusNotFound, "User not found with id: 4")
	})
}
