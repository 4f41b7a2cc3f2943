package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/AnshRaj112/journal-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	mu    sync.Mutex
	links map[string][]string
	fail  error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if m.links == nil {
		m.links = make(map[string][]string)
	}
	m.links[to] = append(m.links[to], link)
	return nil
}

type authFixture struct {
	svc        *AuthService
	users      *memory.UserRepository
	resets     *memory.PasswordResetRepository
	siteConfig *SiteConfigService
	mailer     *recordingMailer
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	client, _ := newTestRedis(t)
	log := zap.NewNop()
	users := memory.NewUserRepository()
	resets := memory.NewPasswordResetRepository()
	siteConfig := NewSiteConfigService(memory.NewSiteConfigRepository(), NewCacheService(client), log)
	mailer := &recordingMailer{}

	svc := NewAuthService(AuthDeps{
		Users:      users,
		Sessions:   NewSessionStore(client, 0),
		SiteConfig: siteConfig,
		Limiter:    NewPasswordResetLimiter(resets, client, log),
		Mailer:     mailer,
		Redis:      client,
		PublicURL:  "https://journal.example",
		Log:        log,
	})
	return authFixture{svc: svc, users: users, resets: resets, siteConfig: siteConfig, mailer: mailer}
}

func TestAuthService_SignupSigninResolve(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	u, err := f.svc.Signup(ctx, "User@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)
	assert.Equal(t, models.ProviderEmail, u.Provider)
	assert.False(t, u.IsStaff)

	token, _, err := f.svc.Signin(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, ok, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, "user@example.com", id.Email)

	require.NoError(t, f.svc.Signout(ctx, token))
	_, ok, err = f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_SigninReplacesSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	_, err := f.svc.Signup(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	first, _, err := f.svc.Signin(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	second, _, err := f.svc.Signin(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, ok, _ := f.svc.Resolve(ctx, first)
	assert.False(t, ok)
	_, ok, _ = f.svc.Resolve(ctx, second)
	assert.True(t, ok)
}

func TestAuthService_SignupErrors(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Signup(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	_, err = f.svc.Signup(ctx, "USER@example.com", "password123")
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	_, err = f.svc.Signup(ctx, "bad", "password123")
	assert.Error(t, err)
	_, err = f.svc.Signup(ctx, "short@example.com", "short")
	assert.Error(t, err)

	closed := false
	_, err = f.siteConfig.Update(ctx, models.SiteConfigurationUpdate{AllowRegistration: &closed})
	require.NoError(t, err)
	_, err = f.svc.Signup(ctx, "late@example.com", "password123")
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestAuthService_SigninInvalid(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	_, err := f.svc.Signup(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, _, err = f.svc.Signin(ctx, "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Signin(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	created, err := f.svc.EnsureAdmin(ctx, "admin@example.com", "adminpassword123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.EnsureAdmin(ctx, "admin@example.com", "adminpassword123")
	require.NoError(t, err)
	assert.False(t, created)

	token, _, err := f.svc.Signin(ctx, "admin@example.com", "adminpassword123")
	require.NoError(t, err)
	id, ok, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, id.IsStaff)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reset-password", u.Path)
	return u.Query().Get("token")
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	_, err := f.svc.Signup(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	session, _, err := f.svc.Signin(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	d, err := f.svc.RequestPasswordReset(ctx, "user@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Eligible)
	require.Len(t, f.mailer.links["user@example.com"], 1)
	token := tokenFromLink(t, f.mailer.links["user@example.com"][0])

	// throttled: nothing sent, nothing recorded
	d, err = f.svc.RequestPasswordReset(ctx, "user@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Eligible)
	assert.Len(t, f.mailer.links["user@example.com"], 1)
	n, _ := f.resets.CountByEmail(ctx, "user@example.com")
	assert.Equal(t, int64(1), n)

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "new-password-1"))
	assert.ErrorIs(t, f.svc.ConfirmPasswordReset(ctx, token, "new-password-2"), ErrInvalidToken)

	_, ok, _ := f.svc.Resolve(ctx, session)
	assert.False(t, ok)
	_, _, err = f.svc.Signin(ctx, "user@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Signin(ctx, "user@example.com", "new-password-1")
	assert.NoError(t, err)
}

func TestAuthService_PasswordResetUnknownEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	d, err := f.svc.RequestPasswordReset(ctx, "ghost@example.com", "")
	require.NoError(t, err)
	assert.True(t, d.Eligible)
	assert.Empty(t, f.mailer.links)

	n, _ := f.resets.CountByEmail(ctx, "ghost@example.com")
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, f.svc.ConfirmPasswordReset(ctx, "bogus", "password123"), ErrInvalidToken)
}

func TestAuthService_PasswordResetMailFailureNotRecorded(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	_, err := f.svc.Signup(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	f.mailer.fail = errors.New("smtp down")
	_, err = f.svc.RequestPasswordReset(ctx, "user@example.com", "10.0.0.1")
	assert.ErrorContains(t, err, "smtp down")
	n, _ := f.resets.CountByEmail(ctx, "user@example.com")
	assert.Zero(t, n)

	f.mailer.fail = nil
	d, err := f.svc.RequestPasswordReset(ctx, "user@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Eligible)
	assert.Len(t, f.mailer.links["user@example.com"], 1)
	n, _ = f.resets.CountByEmail(ctx, "user@example.com")
	assert.Equal(t, int64(1), n)
}
