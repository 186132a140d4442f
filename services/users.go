package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"hobbynet/apperr"
	"hobbynet/db"
	"hobbynet/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
// Handlers drop empty strings before building one of these.
type ProfileUpdate struct {
	Username        *string
	Email           *string
	DateOfBirth     *time.Time
	CurrentPassword *string
	NewPassword     *string
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

func (us *UserService) Register(ctx context.Context, username, email, password string, dateOfBirth *time.Time) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}

	var taken int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&taken).Error
	if err != nil {
		return nil, apperr.Internal("failed to check existing users", err)
	}
	if taken > 0 {
		return nil, apperr.Conflict("username or email already in use")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    passwordHash,
		DateOfBirth: dateOfBirth,
	}
	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		// The unique indexes are the authoritative guard; the count above
		// is only an optimization.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already in use")
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	return user, nil
}

// Authenticate checks credentials and returns the user. Unknown usernames
// and bad passwords fail the same way so callers cannot probe accounts.
func (us *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbidden("invalid credentials")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if !verifyPassword(user.Password, password) {
		return nil, apperr.Forbidden("invalid credentials")
	}
	return &user, nil
}

func (us *UserService) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

// UpdateProfile applies a partial update field by field. The returned bool
// reports whether the password changed, so the caller can rotate the
// session token.
func (us *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, bool, error) {
	var user models.User
	err := db.GetWriteDB(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, false, apperr.Internal("failed to load user", err)
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, false, apperr.Validation("username cannot be empty")
		}
		var taken int64
		err = db.GetReadOnlyDB(ctx).Model(&models.User{}).
			Where("username = ? AND id != ?", username, userID).
			Count(&taken).Error
		if err != nil {
			return nil, false, apperr.Internal("failed to check username uniqueness", err)
		}
		if taken > 0 {
			return nil, false, apperr.Conflict("username already in use")
		}
		user.Username = username
	}

	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" {
			return nil, false, apperr.Validation("email cannot be empty")
		}
		var taken int64
		err = db.GetReadOnlyDB(ctx).Model(&models.User{}).
			Where("email = ? AND id != ?", email, userID).
			Count(&taken).Error
		if err != nil {
			return nil, false, apperr.Internal("failed to check email uniqueness", err)
		}
		if taken > 0 {
			return nil, false, apperr.Conflict("email already in use")
		}
		user.Email = email
	}

	if update.DateOfBirth != nil {
		user.DateOfBirth = update.DateOfBirth
	}

	passwordChanged := false
	if update.NewPassword != nil {
		if update.CurrentPassword == nil {
			return nil, false, apperr.Validation("current_password is required to change password")
		}
		if !verifyPassword(user.Password, *update.CurrentPassword) {
			return nil, false, apperr.Forbidden("current password is incorrect")
		}
		passwordHash, err := hashPassword(*update.NewPassword)
		if err != nil {
			return nil, false, apperr.Internal("failed to hash password", err)
		}
		user.Password = passwordHash
		passwordChanged = true
	}

	if err := db.GetWriteDB(ctx).Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apperr.Conflict("username or email already in use")
		}
		return nil, false, apperr.Internal("failed to save user", err)
	}
	return &user, passwordChanged, nil
}
