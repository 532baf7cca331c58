// Package handler provides the HTTP handlers for the users feature.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"user_service/internal/feature/users/domain"
	"user_service/internal/feature/users/transport/http/dto"
)

// invalidCredentialsMessage is the single message for every authentication
// failure. Unknown email and wrong password must be indistinguishable to
// prevent account enumeration.
const invalidCredentialsMessage = "Invalid email or password"

// writeError translates a domain error into the HTTP status and JSON envelope
// of the API's error contract:
//
//	validation failure  -> 400, field messages joined by ", "
//	invalid credentials -> 401, fixed message
//	not found           -> 404, "User not found with id: {id}"
//	already exists      -> 409, "User with email {email} already exists"
//	anything else       -> 500, "An unexpected error occurred: {err}"
func writeError(c *gin.Context, err error) {
	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	writeEnvelope(c, status, message)
}

func mapError(err error) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, strings.Join(ve.Messages, ", ")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return http.StatusUnauthorized, invalidCredentialsMessage
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, nf.Error()
	}
	var dup *domain.AlreadyExistsError
	if errors.As(err, &dup) {
		return http.StatusConflict, dup.Error()
	}
	return http.StatusInternalServerError, "An unexpected error occurred: " + err.Error()
}

// writeBindingError folds a gin binding failure into the 400 envelope.
// Validator errors become one human-readable message per failed field,
// joined by ", "; malformed JSON gets a generic message.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		writeEnvelope(c, http.StatusBadRequest, strings.Join(msgs, ", "))
		return
	}
	writeEnvelope(c, http.StatusBadRequest, "Invalid request body")
}

// fieldMessage renders a single field constraint failure.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// writeEnvelope emits the error envelope with a fresh UTC timestamp.
func writeEnvelope(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Message:   message,
	})
}
