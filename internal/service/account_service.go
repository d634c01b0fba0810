// Package service contains the application's business logic, sitting between
// HTTP handlers and repositories.
package service

import (
	"context"
	"regexp"
	"strings"

	"parley/internal/models"
	"parley/internal/observability"
	"parley/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// AccountService handles registration, login and token issuance. It holds the
// DB handle directly because registration creates the user, profile and token
// in a single transaction.
type AccountService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

type RegisterInput struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is the response payload for both registration and login.
// Username carries the display name ("First Last"), not the stored username.
type AuthResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   uint   `json:"user_id"`
}

var titleCaser = cases.Title(language.Und)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func NewAccountService(db *gorm.DB, userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AccountService {
	return &AccountService{db: db, userRepo: userRepo, tokenRepo: tokenRepo}
}

// NormalizeUsername trims and title-cases the raw username the way
// registration stores it, so lookups and writes agree on the canonical form.
func NormalizeUsername(raw string) string {
	return titleCaser.String(strings.TrimSpace(raw))
}

// splitName derives first and last name from a normalized username: the first
// whitespace-separated token is the first name, the remainder the last name.
func splitName(username string) (first, last string) {
	parts := strings.Fields(username)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	span, ctx := observability.NewSpan(ctx, "account.register")
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if in.Username == "" {
		return nil, models.NewFieldValidationError(map[string]string{"username": "This field is required."})
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, models.NewFieldValidationError(map[string]string{"username": "This field may not be blank."})
	}
	if in.Email == "" {
		return nil, models.NewFieldValidationError(map[string]string{"email": "This field is required."})
	}
	email := strings.TrimSpace(in.Email)
	if !emailRegex.MatchString(email) {
		return nil, models.NewFieldValidationError(map[string]string{"email": "Enter a valid email address."})
	}
	if in.Password == "" {
		return nil, models.NewFieldValidationError(map[string]string{"password": "This field is required."})
	}
	if in.RepeatedPassword == "" {
		return nil, models.NewFieldValidationError(map[string]string{"repeated_password": "This field is required."})
	}
	if in.Password != in.RepeatedPassword {
		return nil, models.NewValidationError("Passwords do not match")
	}

	username := NormalizeUsername(in.Username)
	first, last := splitName(username)

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("This email is already taken")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("This username is already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: first,
		LastName:  last,
	}

	var token *models.AuthToken
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := &models.UserProfile{UserID: user.ID, Email: user.Email}
		if err := tx.Create(profile).Error; err != nil {
			return models.NewInternalError(err)
		}
		var terr error
		token, terr = repository.NewTokenRepository(tx).GetOrCreate(ctx, user.ID)
		return terr
	})
	if err != nil {
		return nil, err
	}

	span.AddAttributes(attribute.Int("user.id", int(user.ID)))

	return &AuthResult{
		Token:    token.Key,
		Username: user.DisplayName(),
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	span, ctx := observability.NewSpan(ctx, "account.login")
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Invalid username or password")
	}

	// The stored username is the title-cased form, so the client must send
	// exactly what registration echoed back.
	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewValidationError("Invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewValidationError("Invalid username or password")
	}

	token, err := s.tokenRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	span.AddAttributes(attribute.Int("user.id", int(user.ID)))

	return &AuthResult{
		Token:    token.Key,
		Username: user.DisplayName(),
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}
