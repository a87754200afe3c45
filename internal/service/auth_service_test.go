package service

import (
	"testing"

	"medicore/config"
	"medicore/internal/auth"
	"medicore/internal/domain"
	"medicore/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockUserStore struct {
	users  map[string]*models.User
	nextID uint
}

var _ UserStore = (*mockUserStore)(nil)

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[string]*models.User{}}
}

func (m *mockUserStore) Create(u *models.User) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.Email] = u
	return nil
}

func (m *mockUserStore) GetByEmail(email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) GetByID(id uint) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func authTestConfig() *config.Config {
	cfg := config.Load()
	cfg.JWT.AccessSecret = "test-access"
	cfg.JWT.RefreshSecret = "test-refresh"
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	cfg := authTestConfig()
	svc := NewAuthService(cfg, newMockUserStore())

	u, access, refresh, err := svc.Register("Asha", "asha@example.com", "hunter2secret", domain.RolePatient, "")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RolePatient, claims.Role)

	// duplicate email
	_, _, _, err = svc.Register("Asha II", "asha@example.com", "hunter2secret", domain.RolePatient, "")
	assert.ErrorIs(t, err, ErrEmailExists)

	// unknown role
	_, _, _, err = svc.Register("X", "x@example.com", "hunter2secret", "JANITOR", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, access, refresh, err = svc.Login("asha@example.com", "hunter2secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(authTestConfig(), newMockUserStore())
	_, _, _, err := svc.Register("Asha", "asha@example.com", "hunter2secret", domain.RolePatient, "")
	assert.NoError(t, err)

	_, _, _, err = svc.Login("asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, _, err = svc.Login("nobody@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := authTestConfig()
	svc := NewAuthService(cfg, newMockUserStore())
	u, _, refresh, err := svc.Register("Asha", "asha@example.com", "hunter2secret", domain.RolePatient, "")
	assert.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, newRefresh)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, _, err = svc.RefreshToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
