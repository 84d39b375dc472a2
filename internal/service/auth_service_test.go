package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	"github.com/yu47362/sc2002InternshipApplication/internal/session"
	"github.com/yu47362/sc2002InternshipApplication/pkg/config"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

type recordedRotation struct {
	role models.Role
	id   string
}

type mockCredentialPersister struct {
	calls []recordedRotation
}

func (m *mockCredentialPersister) UpdatePassword(ctx context.Context, role models.Role, id, passwordHash string) error {
	m.calls = append(m.calls, recordedRotation{role: role, id: id})
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthWorld(t *testing.T) (*AuthService, *repository.ActorRepository, *session.Registry, *mockCredentialPersister) {
	t.Helper()
	actors := repository.NewActorRepository()
	actors.Seed(
		[]models.Student{{ID: "s1", Name: "Alice", Year: 3, Major: "Computer Science", PasswordHash: hashPassword(t, "password")}},
		[]models.Representative{
			{ID: "r1", Name: "Carol", Company: "Acme", Approved: true, PasswordHash: hashPassword(t, "password")},
			{ID: "r2", Name: "Eve", Company: "Globex", Approved: false, PasswordHash: hashPassword(t, "password")},
		},
		[]models.Staff{{ID: "st1", Name: "Dave", PasswordHash: hashPassword(t, "password")}},
	)
	sessions := session.NewRegistry(5*time.Minute, 30*time.Minute, zap.NewNop())
	persister := &mockCredentialPersister{}
	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "test"}
	svc := NewAuthService(actors, persister, sessions, jwtCfg, nil, zap.NewNop())
	return svc, actors, sessions, persister
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, sessions, _ := newAuthWorld(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{UserID: "s1", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.Equal(t, 1, sessions.Count())
}

func TestAuthServiceLoginBadCredentials(t *testing.T) {
	svc, _, sessions, _ := newAuthWorld(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "s1", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{UserID: "ghost", Password: "password"})
	require.Error(t, err)
	// Unknown ids report the same outcome as wrong passwords.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Zero(t, sessions.Count())
}

func TestAuthServiceLoginUnapprovedRepresentative(t *testing.T) {
	svc, _, sessions, _ := newAuthWorld(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "r2", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRepresentativeHold.Code, appErrors.FromError(err).Code)
	assert.Zero(t, sessions.Count())

	_, err = svc.Login(context.Background(), models.LoginRequest{UserID: "r1", Password: "password"})
	require.NoError(t, err)
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc, _, _, _ := newAuthWorld(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{UserID: "st1", Password: "password"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "st1", claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestAuthServiceValidateTokenWithoutSession(t *testing.T) {
	svc, _, sessions, _ := newAuthWorld(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{UserID: "s1", Password: "password"})
	require.NoError(t, err)

	// A swept session invalidates the token even before its expiry.
	sessions.Remove("s1")
	_, err = svc.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionExpired.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, actors, _, persister := newAuthWorld(t)

	err := svc.ChangePassword(context.Background(), "s1", models.ChangePasswordRequest{
		CurrentPassword: "password",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)
	require.Len(t, persister.calls, 1)
	assert.Equal(t, recordedRotation{role: models.RoleStudent, id: "s1"}, persister.calls[0])

	student, err := actors.FindStudent("s1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("new-password-1")))

	_, err = svc.Login(context.Background(), models.LoginRequest{UserID: "s1", Password: "new-password-1"})
	require.NoError(t, err)
}

func TestAuthServiceChangePasswordGuards(t *testing.T) {
	svc, _, _, persister := newAuthWorld(t)

	err := svc.ChangePassword(context.Background(), "s1", models.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	// Short passwords fail validation before any lookup.
	err = svc.ChangePassword(context.Background(), "s1", models.ChangePasswordRequest{
		CurrentPassword: "password",
		NewPassword:     "short",
	})
	require.Error(t, err)
	assert.Empty(t, persister.calls)
}

func TestAuthServiceLogout(t *testing.T) {
	svc, _, sessions, _ := newAuthWorld(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "s1", Password: "password"})
	require.NoError(t, err)
	require.Equal(t, 1, sessions.Count())

	svc.Logout(context.Background(), "s1")
	assert.Zero(t, sessions.Count())

	// Logging out twice is harmless.
	svc.Logout(context.Background(), "s1")
}
