package service

import (
	"context"
	"fmt"

	"parley/internal/models"
	"parley/internal/repository"
)

type ChatService struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

// CreateChatInput carries a new chat. A client-supplied id is ignored at the
// handler layer and never reaches here.
type CreateChatInput struct {
	Title   *string
	Members []uint
}

type UpdateChatInput struct {
	ChatID          uint
	Title           *string
	Members         []uint
	MembersProvided bool
	Partial         bool
}

type CreateMessageInput struct {
	ChatID   uint
	AuthorID uint
	Text     string
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, messageRepo repository.MessageRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo, messageRepo: messageRepo}
}

func (s *ChatService) ListChats(ctx context.Context) ([]*models.Chat, error) {
	return s.chatRepo.List(ctx)
}

func (s *ChatService) GetChat(ctx context.Context, id uint) (*models.Chat, error) {
	return s.chatRepo.GetByID(ctx, id)
}

// resolveMembers loads every referenced user, rejecting the whole request if
// any id is unknown.
func (s *ChatService) resolveMembers(ctx context.Context, ids []uint) ([]models.User, error) {
	members := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
				return nil, models.NewFieldValidationError(map[string]string{
					"members": fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id)),
				})
			}
			return nil, err
		}
		members = append(members, *user)
	}
	return members, nil
}

func (s *ChatService) CreateChat(ctx context.Context, in CreateChatInput) (*models.Chat, error) {
	title, verr := requireText("title", in.Title)
	if verr != nil {
		return nil, verr
	}
	members, err := s.resolveMembers(ctx, in.Members)
	if err != nil {
		return nil, err
	}

	chat := &models.Chat{Title: title, Members: members}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) UpdateChat(ctx context.Context, in UpdateChatInput) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}

	if in.Partial {
		if in.Title != nil {
			title, verr := requireText("title", in.Title)
			if verr != nil {
				return nil, verr
			}
			chat.Title = title
		}
	} else {
		title, verr := requireText("title", in.Title)
		if verr != nil {
			return nil, verr
		}
		chat.Title = title
	}

	replaceMembers := in.MembersProvided
	var members []models.User
	if replaceMembers {
		members, err = s.resolveMembers(ctx, in.Members)
		if err != nil {
			return nil, err
		}
	}

	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}
	if replaceMembers {
		if err := s.chatRepo.ReplaceMembers(ctx, chat, members); err != nil {
			return nil, err
		}
	}
	return chat, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, id uint) error {
	return s.chatRepo.Delete(ctx, id)
}

func (s *ChatService) ListMessages(ctx context.Context, chatID uint) ([]*models.Message, error) {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByChat(ctx, chatID)
}

func (s *ChatService) CreateMessage(ctx context.Context, in CreateMessageInput) (*models.Message, error) {
	if _, err := s.chatRepo.GetByID(ctx, in.ChatID); err != nil {
		return nil, err
	}
	message := &models.Message{
		ChatID:   &in.ChatID,
		AuthorID: &in.AuthorID,
		Text:     in.Text,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}
