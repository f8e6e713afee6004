package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskdeck/internal/apperr"
	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
	"taskdeck/internal/revocation"
	"taskdeck/internal/token"
)

// RegisterRequest holds the data needed to create a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the outward representation of a user. The password hash
// never leaves the service layer.
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// TokenPair is the credential pair issued on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService manages the session lifecycle: registration, login, access
// token refresh, logout and per-request authentication.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// Refresh mints a new access token from a valid refresh token. The
	// refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout denylists the access token for its remaining lifetime.
	// Idempotent: an expired or already-listed token is a no-op.
	Logout(ctx context.Context, accessToken string) error
	// Authenticate resolves the principal behind an access token, checking
	// signature, expiry, the revocation list and principal existence.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

type authService struct {
	users   repository.UserRepository
	codec   *token.Codec
	revoked revocation.Store
	log     zerolog.Logger
}

func NewAuthService(users repository.UserRepository, codec *token.Codec, revoked revocation.Store, log zerolog.Logger) AuthService {
	return &authService{
		users:   users,
		codec:   codec,
		revoked: revoked,
		log:     log,
	}
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperr.ErrMissingCredential
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, apperr.InvalidArg("invalid email address")
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("checking email uniqueness")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to register user", err)
	}
	if exists {
		return nil, apperr.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error().Err(err).Msg("creating user")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to register user", err)
	}

	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The reason stays in the logs: the response body must not
			// let callers probe which emails are registered.
			s.log.Warn().Str("email", email).Msg("login failed: user not found")
			return nil, apperr.ErrLoginFailed
		}
		s.log.Error().Err(err).Msg("looking up user for login")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn().Uint("user_id", user.ID).Msg("login failed: incorrect password")
		return nil, apperr.ErrLoginFailed
	}

	access, err := s.codec.IssueAccess(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to issue access token", err)
	}
	refresh, err := s.codec.IssueRefresh(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to issue refresh token", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		s.logTokenFailure("refresh", err)
		return "", err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.ErrUnauthenticated
		}
		return "", apperr.Wrap(apperr.CodeInternal, "failed to refresh token", err)
	}

	access, err := s.codec.IssueAccess(user.ID)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "failed to issue access token", err)
	}
	return access, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.codec.DecodeAccess(accessToken)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		// Already expired on its own; nothing to revoke.
		return nil
	}

	if err := s.revoked.Blacklist(ctx, accessToken, ttl); err != nil {
		s.log.Error().Err(err).Msg("blacklisting token")
		return apperr.Wrap(apperr.CodeInternal, "failed to log out", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		s.logTokenFailure("access", err)
		return nil, err
	}

	// Signature and expiry passed; the token may still have been revoked
	// by a logout.
	revoked, err := s.revoked.IsBlacklisted(ctx, accessToken)
	if err != nil {
		s.log.Error().Err(err).Msg("checking revocation list")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to authenticate", err)
	}
	if revoked {
		return nil, apperr.ErrTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to authenticate", err)
	}

	return user, nil
}

// logTokenFailure keeps the expired vs tampered distinction in the logs;
// callers see a uniform unauthenticated error either way.
func (s *authService) logTokenFailure(kind string, err error) {
	if token.IsExpired(err) {
		s.log.Debug().Str("kind", kind).Msg("token expired")
		return
	}
	s.log.Warn().Str("kind", kind).Err(err).Msg("token verification failed")
}
