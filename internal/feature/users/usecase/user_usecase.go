// Package usecase implements the business logic for the users feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"user_service/internal/feature/users/domain"
	"user_service/internal/feature/users/domain/entity"
)

const (
	// minPasswordLength is the minimum accepted password length.
	minPasswordLength = 8

	// maxNameLength is the maximum accepted display name length.
	maxNameLength = 100

	// dummyPasswordHash is compared against when no user matches the login
	// email, so the bcrypt work happens on both paths and response timing
	// cannot be used to enumerate accounts.
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention, the interface is defined by the consumer (usecase)
// rather than the provider (adapters).
type UserRepository interface {
	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByEmail retrieves the user matching the given email address.
	// It returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves the user matching the given ID.
	// It returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id uint64) (*entity.User, error)

	// ExistsByID reports whether a user with the given ID exists.
	ExistsByID(ctx context.Context, id uint64) (bool, error)

	// Save persists a new user and returns the materialized row with ID and
	// CreatedAt assigned. A unique-email violation surfaces as
	// *domain.AlreadyExistsError.
	Save(ctx context.Context, user *entity.User) (*entity.User, error)

	// FindAll returns every user ordered by ascending ID.
	FindAll(ctx context.Context) ([]entity.User, error)

	// DeleteByID removes the user with the given ID. Deleting a missing ID
	// is not an error at this layer.
	DeleteByID(ctx context.Context, id uint64) error
}

// PasswordHasher abstracts the one-way password hashing primitive.
// It is the only writer of the stored form; the usecase never inspects it.
type PasswordHasher interface {
	// Hash derives the salted stored form of a plaintext password.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored form. It returns
	// false on any parse error of the stored form.
	Verify(plaintext, stored string) bool
}

// TokenIssuer abstracts bearer token issuance for authenticated users.
type TokenIssuer interface {
	// GenerateToken creates a signed token for the given user.
	GenerateToken(userID uint64, email, role string) (string, error)
}

// userUsecase implements the account and authentication business logic.
// It holds no mutable state; every method is safe for concurrent use.
type userUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewUserUsecase creates a new instance of userUsecase.
func NewUserUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *userUsecase {
	return &userUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// normalizeEmail trims surrounding whitespace and lowercases the address.
// Email comparisons are case-insensitive at ingress; the stored form is
// always lowercase.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration checks the normalized registration input and collects
// one message per failed field. The transport layer already enforces the same
// rules via binding tags; this keeps the invariants intact for callers that
// bypass HTTP.
func validateRegistration(name, email, password string) []string {
	var msgs []string
	if name == "" {
		msgs = append(msgs, "Name is required")
	} else if len(name) > maxNameLength {
		msgs = append(msgs, fmt.Sprintf("Name must be at most %d characters", maxNameLength))
	}
	if email == "" {
		msgs = append(msgs, "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		msgs = append(msgs, "Email must be a valid email address")
	}
	// Password whitespace is significant; no trimming.
	if len(password) < minPasswordLength {
		msgs = append(msgs, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return msgs
}

// Register creates a new account with a hashed password and the default USER
// role, and returns the saved user.
//
// The ExistsByEmail pre-check is advisory: the store's unique constraint is
// authoritative, so a concurrent insert between check and save still surfaces
// as *domain.AlreadyExistsError.
func (u *userUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if msgs := validateRegistration(name, email, password); len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email existence: %w", err)
	}
	if exists {
		return nil, &domain.AlreadyExistsError{Email: email}
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     entity.RoleUser,
	}

	saved, err := u.users.Save(ctx, user)
	if err != nil {
		var dup *domain.AlreadyExistsError
		if errors.As(err, &dup) {
			return nil, err
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return saved, nil
}

// Login authenticates a user by email and password and returns the user along
// with a freshly issued bearer token.
//
// Unknown email and wrong password both return domain.ErrInvalidCredentials,
// and the password hash comparison runs on both paths, so neither the response
// body nor its timing reveals whether the account exists.
func (u *userUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("find user by email: %w", err)
	}

	stored := dummyPasswordHash
	if err == nil {
		stored = user.Password
	}
	ok := u.hasher.Verify(password, stored)

	if err != nil || !ok {
		return nil, "", domain.ErrInvalidCredentials
	}

	if !user.Role.Valid() {
		return nil, "", fmt.Errorf("user %d has corrupt role %q", user.ID, user.Role)
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetUserByID fetches a single user by ID.
func (u *userUsecase) GetUserByID(ctx context.Context, id uint64) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("user %d has corrupt role %q", user.ID, user.Role)
	}
	return user, nil
}

// GetAllUsers returns every user in ascending ID order.
func (u *userUsecase) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	users, err := u.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		if !users[i].Role.Valid() {
			return nil, fmt.Errorf("user %d has corrupt role %q", users[i].ID, users[i].Role)
		}
	}
	return users, nil
}

// DeleteUser removes the user with the given ID. A missing ID is reported as
// *domain.NotFoundError so callers get a deterministic 404 rather than a
// silent no-op.
func (u *userUsecase) DeleteUser(ctx context.Context, id uint64) error {
	exists, err := u.users.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return &domain.NotFoundError{ID: id}
	}
	if err := u.users.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
