package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/internal/repository"
	"daytrack/internal/util"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type Service struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewService(userRepo *repository.UserRepository, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a user and returns a signed token for it.
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("User registered", zap.Int("user_id", user.ID), zap.String("email", email))
	return user, token, nil
}

// Me resolves the user behind an already-verified token. Stale tokens for
// deleted accounts surface as ErrUserNotFound.
func (s *Service) Me(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !util.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	return user, token, nil
}
