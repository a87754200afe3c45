package models

import (
	"time"

	"medicore/internal/domain"
)

// Notification is immutable once created; per-recipient read state lives
// in notification_reads. Audience columns encode the tagged variant
// All | Role(tag) | User(id).
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	AudienceKind string    `gorm:"size:10;not null;index" json:"audience_kind"` // ALL, ROLE, USER
	TargetRole   string    `gorm:"size:20;index" json:"target_role,omitempty"`
	TargetUserID *uint     `gorm:"index" json:"target_user_id,omitempty"`
	CreatedBy    *uint     `json:"created_by,omitempty"`
	SenderName   string    `gorm:"size:128" json:"sender_name,omitempty"`
	SenderRole   string    `gorm:"size:20" json:"sender_role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Audience reconstructs the tagged variant from the stored columns.
func (n *Notification) Audience() domain.Audience {
	switch domain.AudienceKind(n.AudienceKind) {
	case domain.AudienceRole:
		return domain.RoleAudience(n.TargetRole)
	case domain.AudienceUser:
		var id uint
		if n.TargetUserID != nil {
			id = *n.TargetUserID
		}
		return domain.UserAudience(id)
	default:
		return domain.AllAudience()
	}
}

// NotificationRead existing for (user, notification) is the sole "read"
// marker; absence means unread. Rows are insert-only.
type NotificationRead struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_notification_reads_pair" json:"user_id"`
	NotificationID uint      `gorm:"not null;uniqueIndex:idx_notification_reads_pair" json:"notification_id"`
	ReadAt         time.Time `json:"read_at"`
}

func (NotificationRead) TableName() string {
	return "notification_reads"
}
