package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"servicedirectory/internal/auth"
	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/events"
	"servicedirectory/internal/model"
	"servicedirectory/internal/repository"
)

const (
	bcryptCost = 10

	// MaxPasswordBytes is the longest password bcrypt hashes in full. Longer
	// input would be silently truncated, so it is refused instead.
	MaxPasswordBytes = 72
)

// LoginResult is the session issued by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         model.UserSummary
}

// AuthService handles registration and session operations.
type AuthService interface {
	Register(ctx context.Context, name, mobileNumber, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, expiresAt time.Time, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	publisher events.Publisher,
	logger *zap.Logger,
) AuthService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		publisher:  publisher,
		logger:     logger,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so that an unknown email costs
// about as much as a wrong password.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, name, mobileNumber, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var fields []string
	if name == "" {
		fields = append(fields, "name")
	}
	if email == "" {
		fields = append(fields, "email")
	}
	if password == "" {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields...)
	}
	if len(password) > MaxPasswordBytes {
		return nil, apperrors.NewValidationError("password")
	}

	existing, err := s.userRepo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, &apperrors.ConflictError{Message: "username already exists"}
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Error("check user existence", zap.Error(err))
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		MobileNumber: strings.TrimSpace(mobileNumber),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error("create user", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	event := events.UserRegisteredEvent{ID: user.ID, Name: user.Name, Email: user.Email}
	if err := s.publisher.PublishJSON(ctx, events.UserRegistered, event); err != nil {
		s.logger.Warn("publish user.registered", zap.String("id", user.ID), zap.Error(err))
	}

	return user, nil
}

// Login checks credentials and issues access and refresh tokens. An unknown
// email and a wrong password return the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	var fields []string
	if email == "" {
		fields = append(fields, "email")
	}
	if password == "" {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields...)
	}
	// No stored hash can match a password Register would have refused.
	if len(password) > MaxPasswordBytes {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			equalizeTiming(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("find user by email", zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, s.jwtService.RefreshExpiry()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user.Summary(),
	}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", time.Time{}, apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", time.Time{}, apperrors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", time.Time{}, apperrors.ErrInvalidRefreshToken
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, expiresAt, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
