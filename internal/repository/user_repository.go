package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByName(ctx context.Context, name string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user. A taken display name yields a ConflictError.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	var missing []string
	if user.Name == "" {
		missing = append(missing, "name")
	}
	if user.PasswordHash == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(missing...)
	}

	_, err := r.FindByName(ctx, user.Name)
	switch {
	case err == nil:
		return errNameTaken
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errNameTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// FindByEmail returns the first account registered with email. Emails are not
// unique, so the oldest registration wins.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("created_at, id").First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

var errNameTaken = &apperrors.ConflictError{Message: "username already exists"}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
