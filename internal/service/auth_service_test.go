package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildAuthSvc() (service.AuthService, service.SessionService, *stubUserRepo, *stubSessionRepo) {
	userRepo := newStubUserRepo()
	sessionRepo := newStubSessionRepo()
	sessionSvc := service.NewSessionService(sessionRepo)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8}
	return service.NewAuthService(userRepo, sessionSvc, cfg), sessionSvc, userRepo, sessionRepo
}

func loginReq(username, password string) dto.LoginRequest {
	return dto.LoginRequest{Username: username, Password: password}
}

func seedCredentials(userRepo *stubUserRepo, username, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		BusinessID:   uuid.New(),
		Username:     username,
		Name:         "Demo",
		PasswordHash: string(hash),
		Role:         "cashier",
		Active:       true,
	}
	userRepo.users[u.ID] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, _, userRepo, _ := buildAuthSvc()
	u := seedCredentials(userRepo, "cajero@demo", "secreto")

	resp, err := svc.Login(context.Background(), loginReq("cajero@demo", "secreto"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, u.ID.String(), resp.User.ID)
	assert.Equal(t, u.BusinessID.String(), resp.User.BusinessID)
}

func TestLogin_BadPassword(t *testing.T) {
	svc, _, userRepo, _ := buildAuthSvc()
	seedCredentials(userRepo, "cajero@demo", "secreto")

	_, err := svc.Login(context.Background(), loginReq("cajero@demo", "otra"))
	assert.ErrorContains(t, err, "credenciales")
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	svc, _, userRepo, _ := buildAuthSvc()
	u := seedCredentials(userRepo, "cajero@demo", "secreto")
	u.Active = false

	_, err := svc.Login(context.Background(), loginReq("cajero@demo", "secreto"))
	assert.ErrorContains(t, err, "credenciales")
}

func TestLogout_ClosesOpenSessions(t *testing.T) {
	svc, sessionSvc, userRepo, _ := buildAuthSvc()
	u := seedCredentials(userRepo, "cajero@demo", "secreto")
	branchID := uuid.New()

	_, err := sessionSvc.StartSession(context.Background(), u.ID, branchID)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), u.ID))

	open, err := sessionSvc.Current(context.Background(), u.ID, branchID)
	require.NoError(t, err)
	assert.Nil(t, open)
}
