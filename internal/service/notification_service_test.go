package service

import (
	"testing"

	"medicore/internal/domain"
	"medicore/internal/models"
	"medicore/internal/ws"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockNotificationStore struct {
	CreateFn      func(n *models.Notification) error
	GetByIDFn     func(id uint) (*models.Notification, error)
	ListVisibleFn func(userID uint, role string, f domain.NotificationFilter) ([]models.Notification, error)
	MarkReadFn    func(userID, notificationID uint) error
}

var _ NotificationStore = (*mockNotificationStore)(nil)

func (m *mockNotificationStore) Create(n *models.Notification) error { return m.CreateFn(n) }
func (m *mockNotificationStore) GetByID(id uint) (*models.Notification, error) {
	return m.GetByIDFn(id)
}
func (m *mockNotificationStore) ListVisible(userID uint, role string, f domain.NotificationFilter) ([]models.Notification, error) {
	return m.ListVisibleFn(userID, role, f)
}
func (m *mockNotificationStore) MarkRead(userID, notificationID uint) error {
	return m.MarkReadFn(userID, notificationID)
}

type mockUserDirectory struct {
	GetByIDFn func(id uint) (*models.User, error)
}

var _ UserDirectory = (*mockUserDirectory)(nil)

func (m *mockUserDirectory) GetByID(id uint) (*models.User, error) { return m.GetByIDFn(id) }

// fakeRegistry records publishes instead of fanning out.
type fakeRegistry struct {
	published []struct {
		Audience domain.Audience
		Payload  interface{}
	}
}

var _ ws.Registry = (*fakeRegistry)(nil)

func (f *fakeRegistry) Register(c *ws.Client)   {}
func (f *fakeRegistry) Unregister(c *ws.Client) {}
func (f *fakeRegistry) Publish(a domain.Audience, payload interface{}) {
	f.published = append(f.published, struct {
		Audience domain.Audience
		Payload  interface{}
	}{a, payload})
}

func inMemoryStore() (*mockNotificationStore, *[]models.Notification) {
	var saved []models.Notification
	store := &mockNotificationStore{
		CreateFn: func(n *models.Notification) error {
			n.ID = uint(len(saved) + 1)
			saved = append(saved, *n)
			return nil
		},
	}
	return store, &saved
}

func userDir(users map[uint]*models.User) *mockUserDirectory {
	return &mockUserDirectory{GetByIDFn: func(id uint) (*models.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, gorm.ErrRecordNotFound
	}}
}

func TestCreateRequiresTitleAndMessage(t *testing.T) {
	store, _ := inMemoryStore()
	svc := NewNotificationService(store, userDir(nil), nil)

	_, err := svc.Create(CreateNotificationInput{Title: "  ", Message: "body", TargetRole: "doctor"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(CreateNotificationInput{Title: "t", Message: "", TargetRole: "doctor"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAllowListEnforced(t *testing.T) {
	store, _ := inMemoryStore()
	svc := NewNotificationService(store, userDir(nil), nil)

	// patient may address doctors
	n, err := svc.Create(CreateNotificationInput{
		Title: "q", Message: "m", TargetRole: "doctor",
		Sender: &Sender{ID: 1, Role: domain.RolePatient},
	})
	assert.NoError(t, err)
	assert.Equal(t, string(domain.AudienceRole), n.AudienceKind)
	assert.Equal(t, domain.RoleDoctor, n.TargetRole)

	// patient may not address managers
	_, err = svc.Create(CreateNotificationInput{
		Title: "q", Message: "m", TargetRole: "manager",
		Sender: &Sender{ID: 1, Role: domain.RolePatient},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// only admin/manager may broadcast
	_, err = svc.Create(CreateNotificationInput{
		Title: "q", Message: "m", TargetRole: "all",
		Sender: &Sender{ID: 2, Role: domain.RoleDoctor},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	n, err = svc.Create(CreateNotificationInput{
		Title: "q", Message: "m", TargetRole: "all",
		Sender: &Sender{ID: 3, Role: domain.RoleAdmin},
	})
	assert.NoError(t, err)
	assert.Equal(t, string(domain.AudienceAll), n.AudienceKind)
}

func TestCreateDirectRecipientChecked(t *testing.T) {
	store, _ := inMemoryStore()
	users := map[uint]*models.User{
		10: {ID: 10, Name: "Dr. Amani", Role: domain.RoleDoctor},
		20: {ID: 20, Name: "Ward Manager", Role: domain.RoleManager},
	}
	svc := NewNotificationService(store, userDir(users), nil)

	target := uint(10)
	n, err := svc.Create(CreateNotificationInput{
		Title: "t", Message: "m", TargetUserID: &target,
		Sender: &Sender{ID: 1, Role: domain.RolePatient},
	})
	assert.NoError(t, err)
	assert.Equal(t, string(domain.AudienceUser), n.AudienceKind)
	assert.Equal(t, uint(10), *n.TargetUserID)

	// recipient's role outside the sender's allow-list
	target = 20
	_, err = svc.Create(CreateNotificationInput{
		Title: "t", Message: "m", TargetUserID: &target,
		Sender: &Sender{ID: 1, Role: domain.RolePatient},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// unknown recipient is a validation error, not a crash
	target = 99
	_, err = svc.Create(CreateNotificationInput{
		Title: "t", Message: "m", TargetUserID: &target,
		Sender: &Sender{ID: 1, Role: domain.RolePatient},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateUnknownRoleRejected(t *testing.T) {
	store, _ := inMemoryStore()
	svc := NewNotificationService(store, userDir(nil), nil)
	_, err := svc.Create(CreateNotificationInput{
		Title: "t", Message: "m", TargetRole: "janitor",
		Sender: &Sender{ID: 3, Role: domain.RoleAdmin},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSystemSenderBypassesAllowList(t *testing.T) {
	store, saved := inMemoryStore()
	svc := NewNotificationService(store, userDir(nil), nil)

	err := svc.NotifyRole(domain.RoleManager, "Low stock", "gauze is low")
	assert.NoError(t, err)
	assert.Len(t, *saved, 1)
	assert.Nil(t, (*saved)[0].CreatedBy)
}

func TestCreatePersistsBeforePublish(t *testing.T) {
	reg := &fakeRegistry{}
	users := map[uint]*models.User{10: {ID: 10, Role: domain.RoleDoctor}}
	store, _ := inMemoryStore()
	svc := NewNotificationService(store, userDir(users), reg)

	target := uint(10)
	n, err := svc.Create(CreateNotificationInput{
		Title: "t", Message: "m", TargetUserID: &target,
		Sender: &Sender{ID: 1, Name: "Asha", Role: domain.RolePatient},
	})
	assert.NoError(t, err)
	assert.Len(t, reg.published, 1)
	assert.Equal(t, domain.UserAudience(10), reg.published[0].Audience)
	ev, ok := reg.published[0].Payload.(NotificationEvent)
	assert.True(t, ok)
	assert.Equal(t, "notification", ev.Type)
	assert.Equal(t, n.ID, ev.Notification.ID)
}

func TestCreatePersistFailureSkipsPublish(t *testing.T) {
	reg := &fakeRegistry{}
	store := &mockNotificationStore{
		CreateFn: func(n *models.Notification) error { return gorm.ErrInvalidDB },
	}
	svc := NewNotificationService(store, userDir(nil), reg)

	_, err := svc.Create(CreateNotificationInput{Title: "t", Message: "m", TargetRole: "doctor"})
	assert.Error(t, err)
	assert.Empty(t, reg.published)
}

func TestMarkReadVisibilityAndIdempotence(t *testing.T) {
	doctorOnly := &models.Notification{
		ID: 1, Title: "t", Message: "m",
		AudienceKind: string(domain.AudienceRole), TargetRole: domain.RoleDoctor,
	}
	marked := 0
	store := &mockNotificationStore{
		GetByIDFn: func(id uint) (*models.Notification, error) {
			if id == 1 {
				return doctorOnly, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		MarkReadFn: func(userID, notificationID uint) error {
			marked++
			return nil
		},
	}
	svc := NewNotificationService(store, userDir(nil), nil)

	// visible recipient: marking twice succeeds both times
	assert.NoError(t, svc.MarkRead(5, domain.RoleDoctor, 1))
	assert.NoError(t, svc.MarkRead(5, domain.RoleDoctor, 1))
	assert.Equal(t, 2, marked)

	// invisible recipient gets not-found, and no read row
	err := svc.MarkRead(6, domain.RolePatient, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, marked)

	// missing notification
	err = svc.MarkRead(5, domain.RoleDoctor, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForDelegatesFilter(t *testing.T) {
	var gotFilter domain.NotificationFilter
	store := &mockNotificationStore{
		ListVisibleFn: func(userID uint, role string, f domain.NotificationFilter) ([]models.Notification, error) {
			gotFilter = f
			return []models.Notification{{ID: 1}}, nil
		},
	}
	svc := NewNotificationService(store, userDir(nil), nil)

	list, err := svc.ListFor(5, domain.RoleDoctor, domain.NotificationFilter{UnreadOnly: true, Query: "stock"})
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.True(t, gotFilter.UnreadOnly)
	assert.Equal(t, "stock", gotFilter.Query)
}
