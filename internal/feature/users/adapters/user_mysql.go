// Package adapters provides the repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"user_service/internal/feature/users/domain"
	"user_service/internal/feature/users/domain/entity"
	"user_service/internal/feature/users/usecase"
)

// mysqlDupEntry is the MySQL error number for a duplicate entry on a unique key.
const mysqlDupEntry = 1062

// userMySQL is the MySQL implementation of the UserRepository interface.
// It uses GORM for database operations.
type userMySQL struct {
	db *gorm.DB
}

// Compile-time check that userMySQL implements usecase.UserRepository.
var _ usecase.UserRepository = (*userMySQL)(nil)

// NewUserMySQL creates a new userMySQL instance with the given gorm.DB
// connection. Constructor for dependency injection.
func NewUserMySQL(db *gorm.DB) *userMySQL {
	return &userMySQL{db: db}
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *userMySQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByEmail retrieves a user by email address.
// It returns domain.ErrUserNotFound when no user matches.
func (r *userMySQL) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by ID.
// It returns domain.ErrUserNotFound when no user matches.
func (r *userMySQL) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByID reports whether a user with the given ID exists.
func (r *userMySQL) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a new user. GORM fills ID and CreatedAt on the inserted row.
// A unique-key violation on the email index surfaces as
// *domain.AlreadyExistsError, which makes the constraint the authoritative
// guard against concurrent registrations.
func (r *userMySQL) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, &domain.AlreadyExistsError{Email: u.Email}
		}
		return nil, err
	}
	return u, nil
}

// FindAll returns every user ordered by ascending ID.
func (r *userMySQL) FindAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteByID removes the user row with the given ID.
// Deleting a missing ID is a no-op here; the usecase layer decides whether
// that is an error.
func (r *userMySQL) DeleteByID(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, id).Error
}

// isDuplicateKey recognizes a unique-key violation across drivers: GORM's
// translated error when TranslateError is enabled, or MySQL error 1062 from
// the raw driver.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntry
}
