package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/AnshRaj112/journal-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// ResetTokenKeyPrefix is the Redis key prefix for password reset tokens
	ResetTokenKeyPrefix = "password_reset:"
	// ResetTokenTTL is how long a reset link stays valid
	ResetTokenTTL = time.Hour
)

// AuthService handles accounts, sign-in and the password reset flow.
type AuthService struct {
	users      repository.UserRepository
	sessions   *SessionStore
	siteConfig *SiteConfigService
	limiter    *PasswordResetLimiter
	mailer     Mailer
	redis      *redis.Client
	publicURL  string
	log        *zap.Logger
	now        func() time.Time
}

type AuthDeps struct {
	Users      repository.UserRepository
	Sessions   *SessionStore
	SiteConfig *SiteConfigService
	Limiter    *PasswordResetLimiter
	Mailer     Mailer
	Redis      *redis.Client
	PublicURL  string
	Log        *zap.Logger
}

func NewAuthService(d AuthDeps) *AuthService {
	return &AuthService{
		users:      d.Users,
		sessions:   d.Sessions,
		siteConfig: d.SiteConfig,
		limiter:    d.Limiter,
		mailer:     d.Mailer,
		redis:      d.Redis,
		publicURL:  d.PublicURL,
		log:        d.Log,
		now:        time.Now,
	}
}

// Signup creates an email/password account when registration is open.
func (s *AuthService) Signup(ctx context.Context, email, password string) (models.User, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return models.User{}, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return models.User{}, err
	}

	cfg, err := s.siteConfig.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !cfg.AllowRegistration {
		return models.User{}, ErrRegistrationClosed
	}

	return s.createUser(ctx, email, password, false)
}

// EnsureAdmin creates a staff account for email unless one already exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return false, err
	}
	if _, err := s.createUser(ctx, email, password, true); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password string, staff bool) (models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		ID:           uuid.New(),
		Email:        utils.NormalizeEmail(email),
		PasswordHash: hash,
		Provider:     models.ProviderEmail,
		IsStaff:      staff,
		IsActive:     true,
		DateJoined:   s.now().UTC(),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Signin verifies credentials and opens a session.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}
	if u.PasswordHash == "" {
		// social-login account without a local password
		return "", models.User{}, ErrInvalidCredentials
	}
	ok, err := utils.VerifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return "", models.User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", models.User{}, ErrInactiveAccount
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return "", models.User{}, err
	}
	return token, u, nil
}

// Signout drops the session behind token.
func (s *AuthService) Signout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// Resolve turns a session token into the caller's identity. ok is false
// for unknown tokens and inactive accounts.
func (s *AuthService) Resolve(ctx context.Context, token string) (models.Identity, bool, error) {
	userID, ok, err := s.sessions.Validate(ctx, token)
	if err != nil || !ok {
		return models.Identity{}, false, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Identity{}, false, nil
	}
	if err != nil {
		return models.Identity{}, false, err
	}
	if !u.IsActive {
		return models.Identity{}, false, nil
	}
	return models.Identity{UserID: u.ID, Email: u.Email, IsStaff: u.IsStaff}, true, nil
}

// RequestPasswordReset consults the limiter and, when the email is eligible,
// records the request and mails a reset link if an account exists. The
// decision is the same whether or not the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, ip string) (ResetDecision, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return ResetDecision{}, err
	}
	email = utils.NormalizeEmail(email)

	return s.limiter.Attempt(ctx, email, ip, s.now(), func(ctx context.Context) error {
		return s.sendResetLink(ctx, email)
	})
}

// sendResetLink issues a reset token and mails it when an account exists.
// An unknown email is not an error.
func (s *AuthService) sendResetLink(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := newToken()
	if err != nil {
		return err
	}
	key := ResetTokenKeyPrefix + token
	if err := s.redis.Set(ctx, key, u.ID.String(), ResetTokenTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.publicURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordReset(ctx, u.Email, link); err != nil {
		if derr := s.redis.Del(context.WithoutCancel(ctx), key).Err(); derr != nil {
			s.log.Warn("reset token cleanup failed", zap.Error(derr))
		}
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password for the token's owner, consumes
// the token and signs the user out everywhere.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidToken
	}

	userIDStr, err := s.redis.GetDel(ctx, ResetTokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return s.sessions.InvalidateUser(ctx, userID)
}
