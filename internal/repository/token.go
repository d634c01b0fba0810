package repository

import (
	"context"
	"errors"

	"parley/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for auth tokens.
type TokenRepository interface {
	// GetOrCreate returns the user's existing token, creating one if absent.
	// Repeated calls for the same user return the same key.
	GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error)
	// GetByKey resolves a presented token key, or (nil, nil) when unknown.
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation. Pass a
// transaction handle to make token issuance part of a larger unit of work.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	key, err := models.GenerateTokenKey()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	token = models.AuthToken{Key: key, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race with a concurrent login; the winner's token stands.
			var existing models.AuthToken
			if ferr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := readDB(r.db).WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}
