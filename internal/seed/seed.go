// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"parley/internal/models"
	"parley/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with fake users, chats, posts and messages.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes every seeded record. Join and child tables go first so
// foreign keys never block the wipe.
func (s *Seeder) ClearAll() error {
	tables := []string{"chat_members", "messages", "posts", "auth_tokens", "user_profiles", "chats", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users with profiles and tokens, password "password123".
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := service.NormalizeUsername(first + " " + last)
		user := models.User{
			Username:  username,
			Email:     fmt.Sprintf("%s.%s.%d@%s", strings.ToLower(first), strings.ToLower(last), i, gofakeit.DomainName()),
			Password:  string(hashed),
			FirstName: first,
			LastName:  last,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}

		profile := models.UserProfile{UserID: user.ID, Email: user.Email}
		if s.rng.Intn(2) == 0 {
			tel := gofakeit.Phone()
			profile.Tel = &tel
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}

		key, err := models.GenerateTokenKey()
		if err != nil {
			return nil, err
		}
		if err := s.db.Create(&models.AuthToken{Key: key, UserID: user.ID}).Error; err != nil {
			return nil, err
		}

		users = append(users, user)
	}
	return users, nil
}

// SeedChats creates n chats with random member subsets.
func (s *Seeder) SeedChats(n int, users []models.User) ([]models.Chat, error) {
	chats := make([]models.Chat, 0, n)
	for i := 0; i < n; i++ {
		members := s.pickUsers(users, 2+s.rng.Intn(4))
		chat := models.Chat{
			Title:   gofakeit.Sentence(3),
			Members: members,
		}
		if err := s.db.Create(&chat).Error; err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// SeedPosts creates n posts by random authors, most attached to a chat.
func (s *Seeder) SeedPosts(n int, users []models.User, chats []models.Chat) error {
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		post := models.Post{
			AuthorID:  author.ID,
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
			CreatedAt: s.pastTime(90),
		}
		if len(chats) > 0 && s.rng.Intn(4) != 0 {
			chat := chats[s.rng.Intn(len(chats))]
			post.ChatID = &chat.ID
		}
		if err := s.db.Create(&post).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedMessages creates n messages spread across the given chats.
func (s *Seeder) SeedMessages(n int, users []models.User, chats []models.Chat) error {
	if len(chats) == 0 || len(users) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		chat := chats[s.rng.Intn(len(chats))]
		author := users[s.rng.Intn(len(users))]
		message := models.Message{
			ChatID:   &chat.ID,
			AuthorID: &author.ID,
			Text:     gofakeit.Sentence(8 + s.rng.Intn(10)),
		}
		if err := s.db.Create(&message).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) pickUsers(users []models.User, n int) []models.User {
	if n > len(users) {
		n = len(users)
	}
	idx := s.rng.Perm(len(users))[:n]
	picked := make([]models.User, 0, n)
	for _, i := range idx {
		picked = append(picked, users[i])
	}
	return picked
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}
