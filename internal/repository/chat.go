package repository

import (
	"context"
	"errors"

	"parley/internal/cache"
	"parley/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat data operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]*models.Chat, error)
	Save(ctx context.Context, chat *models.Chat) error
	ReplaceMembers(ctx context.Context, chat *models.Chat, members []models.User) error
	Delete(ctx context.Context, id uint) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	err := readDB(r.db).WithContext(ctx).Preload("Members").First(&chat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Chat", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &chat, nil
}

func (r *chatRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Chat{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *chatRepository) List(ctx context.Context) ([]*models.Chat, error) {
	var chats []*models.Chat
	err := readDB(r.db).WithContext(ctx).Preload("Members").Order("id").Find(&chats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return chats, nil
}

func (r *chatRepository) Save(ctx context.Context, chat *models.Chat) error {
	// Omit Members so association rows are only touched through ReplaceMembers.
	if err := r.db.WithContext(ctx).Omit("Members").Save(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) ReplaceMembers(ctx context.Context, chat *models.Chat, members []models.User) error {
	err := r.db.WithContext(ctx).Model(chat).Association("Members").Replace(members)
	if err != nil {
		return models.NewInternalError(err)
	}
	chat.Members = members
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, id uint) error {
	// Deleting a chat cascades to its posts in the store, so the cached
	// copies have to go too.
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("chat_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		chat := models.Chat{ID: id}
		if err := tx.Model(&chat).Association("Members").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&models.Chat{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Chat", id)
		}
		return models.NewInternalError(err)
	}
	for _, postID := range postIDs {
		cache.InvalidatePost(ctx, postID)
	}
	return nil
}
