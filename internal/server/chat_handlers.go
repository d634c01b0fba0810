package server

import (
	"parley/internal/models"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// chatPayload is the wire shape for chat create/update bodies. Clients
// sometimes echo back an "id" field; it is accepted and ignored.
type chatPayload struct {
	ID      *uint   `json:"id"`
	Title   *string `json:"title"`
	Members []uint  `json:"members"`
}

type messagePayload struct {
	Text string `json:"text"`
}

// GetChats handles GET /api/chats/
func (s *Server) GetChats(c *fiber.Ctx) error {
	chats, err := s.chatService.ListChats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]models.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		out = append(out, chat.Response())
	}
	return c.JSON(out)
}

// GetChat handles GET /api/chats/:id
func (s *Server) GetChat(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	chat, err := s.chatService.GetChat(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chat.Response())
}

// CreateChat handles POST /api/chats/
func (s *Server) CreateChat(c *fiber.Ctx) error {
	var req chatPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	chat, err := s.chatService.CreateChat(c.UserContext(), service.CreateChatInput{
		Title:   req.Title,
		Members: req.Members,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat.Response())
}

// UpdateChat handles PUT /api/chats/:id
func (s *Server) UpdateChat(c *fiber.Ctx) error {
	return s.updateChat(c, false)
}

// PatchChat handles PATCH /api/chats/:id
func (s *Server) PatchChat(c *fiber.Ctx) error {
	return s.updateChat(c, true)
}

func (s *Server) updateChat(c *fiber.Ctx, partial bool) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req chatPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	chat, err := s.chatService.UpdateChat(c.UserContext(), service.UpdateChatInput{
		ChatID:          id,
		Title:           req.Title,
		Members:         req.Members,
		MembersProvided: req.Members != nil,
		Partial:         partial,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chat.Response())
}

// DeleteChat handles DELETE /api/chats/:id
func (s *Server) DeleteChat(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.DeleteChat(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetChatMessages handles GET /api/chats/:id/messages
func (s *Server) GetChatMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	messages, err := s.chatService.ListMessages(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return c.JSON(messages)
}

// SendChatMessage handles POST /api/chats/:id/messages
func (s *Server) SendChatMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req messagePayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	message, err := s.chatService.CreateMessage(c.UserContext(), service.CreateMessageInput{
		ChatID:   id,
		AuthorID: currentUserID(c),
		Text:     req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
