package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/common"
	"gamestore/internal/common/security"
	"gamestore/internal/domain/model"
)

type authFixture struct {
	users  *fakeUserRepo
	mail   *fakeMailQueue
	creds  *CredentialStore
	tokens *security.TokenService
	svc    *AuthService
	logs   *bytes.Buffer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users: newFakeUserRepo(),
		mail:  &fakeMailQueue{},
		logs:  &bytes.Buffer{},
	}
	f.creds = NewCredentialStore(f.users, security.NewPasswordHasher(4))
	f.tokens = security.NewTokenService([]byte("test-secret"), time.Hour)
	log := slog.New(slog.NewTextHandler(f.logs, nil))
	f.svc = NewAuthService(f.creds, f.tokens, f.mail, log, 24*time.Hour, time.Hour)
	return f
}

func registerReq(username string) RegisterRequest {
	return RegisterRequest{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "Passw0rd!",
		VerifyPassword: "Passw0rd!",
	}
}

func TestAuthService_RegisterIssuesTokenForNewUser(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)

	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "player_one", resp.User.Username)
	assert.False(t, resp.User.IsAdmin)
	assert.NotEqual(t, "Passw0rd!", resp.User.PasswordHash)

	sub, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, sub)
}

func TestAuthService_RegisterQueuesWelcomeMail(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)

	require.Len(t, f.mail.jobs, 1)
	job := f.mail.jobs[0]
	assert.Equal(t, model.MailKindWelcome, job.Kind)
	assert.Equal(t, "player_one@example.com", job.To)
	require.NotEmpty(t, job.Token)

	verified, err := f.svc.VerifyEmail(context.Background(), job.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, verified.ID)
	assert.True(t, verified.EmailVerified)
}

func TestAuthService_RegisterSurvivesQueueOutage(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.err = errors.New("redis: connection refused")

	resp, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, f.logs.String(), "queueing mail")
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), registerReq("player_one"))
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Username or email already exists", common.PublicMessage(err))
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	reg, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)

	resp, err := f.svc.Login(context.Background(), LoginRequest{Username: "player_one", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	_, err = f.svc.Login(context.Background(), LoginRequest{Username: "player_one", Password: "wrong-pass"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Invalid username or password", common.PublicMessage(err))

	_, err = f.svc.Login(context.Background(), LoginRequest{Username: "nobody_here", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_LoginRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	reg, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)
	require.NoError(t, f.creds.SoftDelete(context.Background(), reg.User.ID))

	_, err = f.svc.Login(context.Background(), LoginRequest{Username: "player_one", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_SendVerificationEmail(t *testing.T) {
	f := newAuthFixture(t)
	reg, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)

	require.NoError(t, f.svc.SendVerificationEmail(context.Background(), reg.User.ID))
	require.Len(t, f.mail.jobs, 2)
	assert.Equal(t, model.MailKindVerifyEmail, f.mail.jobs[1].Kind)
	assert.NotEqual(t, f.mail.jobs[0].Token, f.mail.jobs[1].Token)

	// The welcome token was replaced by the resend.
	_, err = f.svc.VerifyEmail(context.Background(), f.mail.jobs[0].Token)
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)

	_, err = f.svc.VerifyEmail(context.Background(), f.mail.jobs[1].Token)
	require.NoError(t, err)

	err = f.svc.SendVerificationEmail(context.Background(), reg.User.ID)
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, "Email is already verified", common.PublicMessage(err))
}

func TestAuthService_ForgotPasswordIsNeutral(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)

	f.svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.Len(t, f.mail.jobs, 1)

	f.svc.ForgotPassword(context.Background(), "player_one@example.com")
	require.Len(t, f.mail.jobs, 2)
	assert.Equal(t, model.MailKindPasswordReset, f.mail.jobs[1].Kind)
}

func TestAuthService_ResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(context.Background(), registerReq("player_one"))
	require.NoError(t, err)
	f.svc.ForgotPassword(context.Background(), "player_one@example.com")
	token := f.mail.jobs[len(f.mail.jobs)-1].Token

	req := ResetPasswordRequest{Password: "N3wPassw0rd!", VerifyPassword: "N3wPassw0rd!"}
	require.NoError(t, f.svc.ResetPassword(context.Background(), token, req))

	_, err = f.svc.Login(context.Background(), LoginRequest{Username: "player_one", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = f.svc.Login(context.Background(), LoginRequest{Username: "player_one", Password: "N3wPassw0rd!"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), token, req)
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredToken)
}
