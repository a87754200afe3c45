package domain

import "strings"

// AudienceKind discriminates the closed set of notification targets.
type AudienceKind string

const (
	AudienceAll  AudienceKind = "ALL"
	AudienceRole AudienceKind = "ROLE"
	AudienceUser AudienceKind = "USER"
)

// Audience is the tagged variant All | Role(tag) | User(id). Exactly one
// of Role/UserID is meaningful depending on Kind.
type Audience struct {
	Kind   AudienceKind
	Role   string
	UserID uint
}

func AllAudience() Audience            { return Audience{Kind: AudienceAll} }
func RoleAudience(role string) Audience { return Audience{Kind: AudienceRole, Role: role} }
func UserAudience(id uint) Audience    { return Audience{Kind: AudienceUser, UserID: id} }

// Matches reports whether a recipient with the given identity and role is
// part of this audience.
func (a Audience) Matches(userID uint, role string) bool {
	switch a.Kind {
	case AudienceAll:
		return true
	case AudienceRole:
		return a.Role == role
	case AudienceUser:
		return a.UserID == userID
	}
	return false
}

// NormalizeRole maps API role tags ("lab-technician", "Manager") onto the
// stored uppercase constants. Returns "" for unrecognized tags.
func NormalizeRole(tag string) string {
	t := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(tag), "-", "_"))
	if ValidRole(t) {
		return t
	}
	return ""
}
