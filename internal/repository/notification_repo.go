package repository

import (
	"errors"
	"strings"
	"time"

	"medicore/internal/domain"
	"medicore/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListVisible returns notifications addressed to everyone, to the
// recipient's role, or to the recipient directly, newest first, with
// the filter predicates applied at the query layer.
func (r *NotificationRepository) ListVisible(userID uint, role string, f domain.NotificationFilter) ([]models.Notification, error) {
	q := r.db.Model(&models.Notification{}).
		Where("audience_kind = ? OR (audience_kind = ? AND target_role = ?) OR (audience_kind = ? AND target_user_id = ?)",
			domain.AudienceAll, domain.AudienceRole, role, domain.AudienceUser, userID)
	if f.UnreadOnly {
		q = q.Where("notifications.id NOT IN (?)",
			r.db.Model(&models.NotificationRead{}).Select("notification_id").Where("user_id = ?", userID))
	}
	if f.From != nil {
		q = q.Where("notifications.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("notifications.created_at <= ?", *f.To)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(message) LIKE ?", like, like)
	}
	var list []models.Notification
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarkRead inserts the read-state row if absent. Safe to call repeatedly;
// a concurrent duplicate insert hitting the unique pair index is treated
// as already-read.
func (r *NotificationRepository) MarkRead(userID, notificationID uint) error {
	var existing models.NotificationRead
	err := r.db.Where("user_id = ? AND notification_id = ?", userID, notificationID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	row := &models.NotificationRead{UserID: userID, NotificationID: notificationID, ReadAt: time.Now()}
	if err := r.db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}
