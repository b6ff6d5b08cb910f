package repo

import (
	"context"
	"strings"

	"github.com/kindones/storefront/internal/models"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&user).Error
	if err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user by id")
	}
	return &user, nil
}

// CreateUser stores the email lowercased. A taken email yields domain.ErrDuplicate.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return translate(r.DB.WithContext(ctx).Create(user).Error, "create user")
}

// ReplacePendingPassword swaps the hash of a guest account still waiting for
// its credentials. It reports false when the account is no longer pending or
// another request replaced the hash first.
func (r *GormRepo) ReplacePendingPassword(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND password_hash = ? AND credentials_pending = ?", id, oldHash, true).
		Update("password_hash", newHash)
	if res.Error != nil {
		return false, translate(res.Error, "replace pending password")
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) MarkCredentialsSent(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("credentials_pending", false).Error
	return translate(err, "mark credentials sent")
}
