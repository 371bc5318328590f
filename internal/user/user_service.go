package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inkwell/internal/common"
	"inkwell/internal/dbmysql"
)

// UserService covers registration and login. Everything else about a user
// in this system is their authored content and follow edges.
type UserService interface {
	Register(ctx context.Context, username, password string) (*dbmysql.User, string, error)
	Login(ctx context.Context, username, password string) (*dbmysql.User, string, error)
}

type userService struct {
	userRepo        UserRepository
	sessions        *common.SessionManager
	sessionLifetime time.Duration
}

func NewUserService(userRepo UserRepository, sessions *common.SessionManager, sessionLifetime time.Duration) UserService {
	return &userService{userRepo: userRepo, sessions: sessions, sessionLifetime: sessionLifetime}
}

func (s *userService) Register(ctx context.Context, username, password string) (*dbmysql.User, string, error) {
	if err := common.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.userRepo.CheckUsernameExists(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("%w: username already taken", common.ErrValidation)
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		Username:     username,
		PasswordHash: hashed,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.GenerateToken(user.UserID, user.Username, s.sessionLifetime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*dbmysql.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password required", common.ErrValidation)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrValidation)
		}
		return nil, "", err
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrValidation)
	}

	token, err := s.sessions.GenerateToken(user.UserID, user.Username, s.sessionLifetime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
