package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gamestore/internal/common"
	"gamestore/internal/common/security"
	"gamestore/internal/domain/model"
)

// MailEnqueuer hands mail jobs to the delivery worker.
type MailEnqueuer interface {
	Enqueue(ctx context.Context, job model.MailJob) error
}

type AuthService struct {
	creds     *CredentialStore
	tokens    *security.TokenService
	mail      MailEnqueuer
	log       *slog.Logger
	verifyTTL time.Duration
	resetTTL  time.Duration
}

func NewAuthService(
	creds *CredentialStore,
	tokens *security.TokenService,
	mail MailEnqueuer,
	log *slog.Logger,
	verifyTTL, resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		creds:     creds,
		tokens:    tokens,
		mail:      mail,
		log:       log,
		verifyTTL: verifyTTL,
		resetTTL:  resetTTL,
	}
}

type RegisterRequest struct {
	Username       string  `json:"username" validate:"required,min=6,max=16,username"`
	Email          string  `json:"email" validate:"required,email,max=100"`
	Password       string  `json:"password" validate:"required,min=8,max=100,password"`
	VerifyPassword string  `json:"verifyPassword" validate:"required"`
	Name           *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

type ResetPasswordRequest struct {
	Password       string `json:"password" validate:"required,min=8,max=100,password"`
	VerifyPassword string `json:"verifyPassword" validate:"required"`
}

type AuthResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

var errInvalidCredentials = common.NewError(common.ErrUnauthorized, "Invalid username or password")

// Register creates the account, returns a session token for it and queues
// the welcome mail carrying an email verification link.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := s.creds.Create(ctx, NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, s.tokens.DefaultTTL())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	verifyToken, err := s.creds.SetEmailVerifyToken(ctx, user.ID, s.verifyTTL)
	if err != nil {
		s.log.Error("storing email verification token", "user_id", user.ID, "error", err)
	} else {
		s.enqueue(ctx, model.MailJob{Kind: model.MailKindWelcome, To: user.Email, Username: user.Username, Token: verifyToken})
	}

	return &AuthResponse{Message: "User registered successfully", User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.creds.VerifyPassword(ctx, req.Username, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.tokens.DefaultTTL())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResponse{Message: "Login successful", User: user, Token: token}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.creds.GetByID(ctx, userID)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	return s.creds.ConsumeEmailVerifyToken(ctx, token)
}

func (s *AuthService) SendVerificationEmail(ctx context.Context, userID int64) error {
	user, err := s.creds.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return common.NewError(common.ErrBadRequest, "Email is already verified")
	}

	token, err := s.creds.SetEmailVerifyToken(ctx, user.ID, s.verifyTTL)
	if err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}
	job := model.MailJob{Kind: model.MailKindVerifyEmail, To: user.Email, Username: user.Username, Token: token}
	if err := s.mail.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("queue verification mail: %w", err)
	}
	return nil
}

// ForgotPassword sends a reset link when a live account uses email. The
// outcome is never reported to the caller so accounts cannot be probed.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) {
	user, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Error("looking up user for password reset", "error", err)
		}
		return
	}

	token, err := s.creds.SetResetToken(ctx, user.ID, s.resetTTL)
	if err != nil {
		s.log.Error("storing password reset token", "user_id", user.ID, "error", err)
		return
	}
	s.enqueue(ctx, model.MailJob{Kind: model.MailKindPasswordReset, To: user.Email, Username: user.Username, Token: token})
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error {
	_, err := s.creds.ConsumePasswordReset(ctx, token, req.Password)
	return err
}

// enqueue logs delivery problems instead of failing the caller's request.
func (s *AuthService) enqueue(ctx context.Context, job model.MailJob) {
	if err := s.mail.Enqueue(ctx, job); err != nil {
		s.log.Error("queueing mail", "kind", job.Kind, "to", job.To, "error", err)
	}
}
