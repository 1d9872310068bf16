package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout closes every open work session of the user. The token itself
	// is stateless; the client discards it.
	Logout(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	users    repository.UserRepository
	sessions SessionService
	cfg      *config.Config
}

func NewAuthService(users repository.UserRepository, sessions SessionService, cfg *config.Config) AuthService {
	return &authService{users: users, sessions: sessions, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("credenciales inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales inválidas")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User: dto.UserResponse{
			ID:         user.ID.String(),
			BusinessID: user.BusinessID.String(),
			Username:   user.Username,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			Active:     user.Active,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	_, err := s.sessions.CloseAllForUser(ctx, userID)
	return err
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"business_id": user.BusinessID.String(),
		"username":    user.Username,
		"role":        user.Role,
		"exp":         time.Now().Add(duration).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
