package service

import (
	"errors"
	"log"
	"strings"

	"medicore/internal/domain"
	"medicore/internal/models"
	"medicore/internal/ws"

	"gorm.io/gorm"
)

// NotificationStore is the persistence surface the dispatcher needs.
type NotificationStore interface {
	Create(n *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	ListVisible(userID uint, role string, f domain.NotificationFilter) ([]models.Notification, error)
	MarkRead(userID, notificationID uint) error
}

// UserDirectory resolves recipient identities for allow-list checks.
type UserDirectory interface {
	GetByID(id uint) (*models.User, error)
}

// Sender identifies the creating user. A nil sender is the system itself
// (payment confirmations, low-stock alerts) and bypasses the allow-list.
type Sender struct {
	ID   uint
	Name string
	Role string
}

type CreateNotificationInput struct {
	Title        string
	Message      string
	TargetRole   string // role tag or "all"; ignored when TargetUserID is set
	TargetUserID *uint
	Sender       *Sender
}

// NotificationEvent is the push payload fanned out to live connections.
type NotificationEvent struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

// NotificationService persists notifications and fans them out to live
// connections. Persistence is the durable record; the push is best-effort.
type NotificationService struct {
	store    NotificationStore
	users    UserDirectory
	registry ws.Registry
}

func NewNotificationService(store NotificationStore, users UserDirectory, registry ws.Registry) *NotificationService {
	return &NotificationService{store: store, users: users, registry: registry}
}

// Create validates, persists, then pushes to every connection whose
// subscription matches the audience. A push failure never fails Create.
func (s *NotificationService) Create(in CreateNotificationInput) (*models.Notification, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Validationf("title is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.Validationf("message is required")
	}
	audience, err := s.resolveAudience(in)
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		Title:        in.Title,
		Message:      in.Message,
		AudienceKind: string(audience.Kind),
	}
	switch audience.Kind {
	case domain.AudienceRole:
		n.TargetRole = audience.Role
	case domain.AudienceUser:
		id := audience.UserID
		n.TargetUserID = &id
	}
	if in.Sender != nil {
		id := in.Sender.ID
		n.CreatedBy = &id
		n.SenderName = in.Sender.Name
		n.SenderRole = in.Sender.Role
	}
	if err := s.store.Create(n); err != nil {
		return nil, err
	}
	if s.registry != nil {
		s.registry.Publish(audience, NotificationEvent{Type: "notification", Notification: n})
	}
	return n, nil
}

// resolveAudience parses the target into the tagged variant and enforces
// the sender-role allow-list. System sends (nil sender) skip the check.
func (s *NotificationService) resolveAudience(in CreateNotificationInput) (domain.Audience, error) {
	if in.TargetUserID != nil {
		recipient, err := s.users.GetByID(*in.TargetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.Audience{}, domain.Validationf("recipient %d not found", *in.TargetUserID)
			}
			return domain.Audience{}, err
		}
		if in.Sender != nil && !domain.CanAddress(in.Sender.Role, recipient.Role) {
			return domain.Audience{}, domain.ErrUnauthorized
		}
		return domain.UserAudience(recipient.ID), nil
	}
	tag := strings.TrimSpace(in.TargetRole)
	if strings.EqualFold(tag, "all") {
		if in.Sender != nil && !domain.CanBroadcast(in.Sender.Role) {
			return domain.Audience{}, domain.ErrUnauthorized
		}
		return domain.AllAudience(), nil
	}
	role := domain.NormalizeRole(tag)
	if role == "" {
		return domain.Audience{}, domain.Validationf("unknown target role %q", tag)
	}
	if in.Sender != nil && !domain.CanAddress(in.Sender.Role, role) {
		return domain.Audience{}, domain.ErrUnauthorized
	}
	return domain.RoleAudience(role), nil
}

// ListFor returns the notifications visible to the recipient, newest
// first, with the filter applied.
func (s *NotificationService) ListFor(userID uint, role string, f domain.NotificationFilter) ([]models.Notification, error) {
	return s.store.ListVisible(userID, role, f)
}

// MarkRead is idempotent; it fails with ErrNotFound when the notification
// does not exist or is not visible to the recipient.
func (s *NotificationService) MarkRead(userID uint, role string, notificationID uint) error {
	n, err := s.store.GetByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !n.Audience().Matches(userID, role) {
		return domain.ErrNotFound
	}
	return s.store.MarkRead(userID, notificationID)
}

// NotifyUser is the system send path used by other services.
func (s *NotificationService) NotifyUser(userID uint, title, message string) error {
	_, err := s.Create(CreateNotificationInput{Title: title, Message: message, TargetUserID: &userID})
	if err != nil {
		log.Printf("[NOTIFY] user %d: %v", userID, err)
	}
	return err
}

// NotifyRole is the system send path addressing a whole role.
func (s *NotificationService) NotifyRole(role, title, message string) error {
	_, err := s.Create(CreateNotificationInput{Title: title, Message: message, TargetRole: role})
	if err != nil {
		log.Printf("[NOTIFY] role %s: %v", role, err)
	}
	return err
}
