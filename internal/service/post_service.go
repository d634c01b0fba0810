package service

import (
	"context"
	"fmt"
	"strings"

	"parley/internal/models"
	"parley/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	chatRepo repository.ChatRepository
}

// CreatePostInput carries a new post. Title and Content are pointers so a
// missing field and a blank one produce different validation messages.
type CreatePostInput struct {
	AuthorID uint
	Title    *string
	Content  *string
	ChatID   *uint
}

// UpdatePostInput carries changes to an existing post. With Partial set,
// absent fields keep their stored values; otherwise Title and Content are
// required. The chat reference only changes when ChatProvided is set, on
// full and partial updates alike.
type UpdatePostInput struct {
	PostID       uint
	Title        *string
	Content      *string
	ChatID       *uint
	ChatProvided bool
	Partial      bool
}

func NewPostService(postRepo repository.PostRepository, chatRepo repository.ChatRepository) *PostService {
	return &PostService{postRepo: postRepo, chatRepo: chatRepo}
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// requireText validates a required text field: nil means the field was
// absent, whitespace-only means it was blank. The stored value is trimmed.
func requireText(field string, value *string) (string, *models.AppError) {
	if value == nil {
		return "", models.NewFieldValidationError(map[string]string{field: "This field is required."})
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", models.NewFieldValidationError(map[string]string{field: "This field may not be blank."})
	}
	return trimmed, nil
}

func (s *PostService) validateChat(ctx context.Context, chatID *uint) error {
	if chatID == nil {
		return nil
	}
	ok, err := s.chatRepo.Exists(ctx, *chatID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewFieldValidationError(map[string]string{
			"chat": fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(*chatID)),
		})
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title, verr := requireText("title", in.Title)
	if verr != nil {
		return nil, verr
	}
	content, verr := requireText("content", in.Content)
	if verr != nil {
		return nil, verr
	}
	if err := s.validateChat(ctx, in.ChatID); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    title,
		Content:  content,
		ChatID:   in.ChatID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies a full or partial update. The author and creation time
// are never writable, and any caller may edit any post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Partial {
		if in.Title != nil {
			title, verr := requireText("title", in.Title)
			if verr != nil {
				return nil, verr
			}
			post.Title = title
		}
		if in.Content != nil {
			content, verr := requireText("content", in.Content)
			if verr != nil {
				return nil, verr
			}
			post.Content = content
		}
	} else {
		title, verr := requireText("title", in.Title)
		if verr != nil {
			return nil, verr
		}
		content, verr := requireText("content", in.Content)
		if verr != nil {
			return nil, verr
		}
		post.Title = title
		post.Content = content
	}

	if in.ChatProvided {
		if err := s.validateChat(ctx, in.ChatID); err != nil {
			return nil, err
		}
		post.ChatID = in.ChatID
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}
