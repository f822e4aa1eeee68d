package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/commerce"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

// authAPI is the slice of the commerce client the auth service uses.
type authAPI interface {
	Signin(ctx context.Context, creds commerce.Credentials) (*commerce.AuthResult, error)
	Signup(ctx context.Context, reg commerce.Registration) (*commerce.AuthResult, error)
}

// sessionForgetter drops per-session cached state at logout.
type sessionForgetter interface {
	ForgetSession(sessionID string)
}

// LoginInput are the credentials supplied by the shopper.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput is a new account registration.
type RegisterInput struct {
	Name       string `json:"name" validate:"required,min=3,max=30"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RePassword string `json:"re_password" validate:"required,eqfield=Password"`
	Phone      string `json:"phone" validate:"required"`
}

// AuthService exchanges credentials for commerce tokens and owns session
// creation and teardown. It never inspects the token; the commerce API is
// the only party that can interpret it.
type AuthService struct {
	api      authAPI
	sessions *session.Manager
	caches   []sessionForgetter
	logger   *slog.Logger
}

// NewAuthService creates an auth service. caches are the per-session stores
// to purge at logout.
func NewAuthService(api authAPI, sessions *session.Manager, logger *slog.Logger, caches ...sessionForgetter) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		caches:   caches,
		logger:   logger,
	}
}

// Login signs the shopper in upstream and mints a storefront session around
// the issued token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*session.Session, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	res, err := s.api.Signin(ctx, commerce.Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("signin: %w", err)
	}

	sess, err := s.sessions.Create(ctx, res.Token, res.Name, res.Email)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "shopper logged in", slog.String("session_id", sess.ID))
	return sess, nil
}

// Register creates a new account upstream and logs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*session.Session, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if !egyptianPhone.MatchString(input.Phone) {
		return nil, apperrors.InvalidInput("phone must be a valid Egyptian mobile number")
	}

	res, err := s.api.Signup(ctx, commerce.Registration{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		RePassword: input.RePassword,
		Phone:      input.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	sess, err := s.sessions.Create(ctx, res.Token, res.Name, res.Email)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "shopper registered", slog.String("session_id", sess.ID))
	return sess, nil
}

// Logout clears the session and drops its cached cart and wishlist so the
// data cannot leak into a later session on the same browser.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	for _, c := range s.caches {
		c.ForgetSession(sess.ID)
	}
	if err := s.sessions.Clear(ctx, sess.ID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.logger.InfoContext(ctx, "shopper logged out", slog.String("session_id", sess.ID))
	return nil
}
