package store

import (
	"context"
	"time"

	"github.com/nlysenko/podboard/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateUser registers a new account and returns its id. Login matching is
// a case-sensitive exact match on the stored string; a taken login yields
// ErrConflict. The unique index on login backs this up against races.
func CreateUser(ctx context.Context, db *gorm.DB, login string, pwdHash string) (uint, error) {
	user := model.User{
		Login:          login,
		PwdHash:        pwdHash,
		RegistrationDt: time.Now(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		return 0, errors.Wrap(err, "fail to create user")
	}
	return user.Id, nil
}

// AuthenticateUser returns the id of the user matching the exact
// (login, pwd_hash) pair, or ErrNotFound when no such user exists.
func AuthenticateUser(ctx context.Context, db *gorm.DB, login string, pwdHash string) (uint, error) {
	var user model.User
	result := db.WithContext(ctx).
		Where("login = ? AND pwd_hash = ?", login, pwdHash).
		Order("id asc").
		First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "fail to authenticate user")
	}
	return user.Id, nil
}

// GetUserByID returns the user with the given id, or ErrNotFound. The
// password hash field never leaves the model's json:"-" projection.
func GetUserByID(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	var user model.User
	result := db.WithContext(ctx).Where("id = ?", userID).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "fail to get user")
	}
	return &user, nil
}
