package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"campusmap/internal/auth"
	"campusmap/internal/cache"
	"campusmap/internal/middleware"
	"campusmap/internal/models"
	"campusmap/internal/repository"
	"campusmap/internal/validation"
)

// UserService handles registration, login and token revocation.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	store    *cache.Store
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, store *cache.Store) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, store: store}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already registered")
	}
	existing, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: in.Username, Email: in.Email, Password: hashed}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	invalid := models.NewUnauthorizedError("Incorrect username or password")

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}
	ok, err := auth.CheckPassword(user.Password, password)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "stored password hash unreadable",
			slog.Uint64("user_id", uint64(user.ID)))
		return nil, invalid
	}
	if !ok {
		return nil, invalid
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its claims, rejecting revoked
// tokens.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if s.store.IsTokenRevoked(ctx, claims.JTI) {
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}
	if _, err := s.userRepo.GetByID(ctx, claims.UserID); err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Could not validate credentials")
		}
		return nil, err
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.JTI == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if err := s.store.RevokeToken(ctx, claims.JTI, ttl); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return s.userRepo.IsAdmin(ctx, userID)
}
