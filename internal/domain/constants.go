package domain

// Staff and patient roles. Role tags are stored uppercase; API input is
// normalized via NormalizeRole.
const (
	RolePatient       = "PATIENT"
	RoleDoctor        = "DOCTOR"
	RoleAdmin         = "ADMIN"
	RoleLabTechnician = "LAB_TECHNICIAN"
	RoleManager       = "MANAGER"
)

var Roles = []string{RolePatient, RoleDoctor, RoleAdmin, RoleLabTechnician, RoleManager}

const (
	InvoiceStatusPending = "PENDING"
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusVoid    = "VOID"
)

const (
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailed    = "FAILED"
)

const (
	ControlNumberActive    = "ACTIVE"
	ControlNumberCancelled = "CANCELLED"
	ControlNumberExpired   = "EXPIRED"
	ControlNumberReissued  = "REISSUED"
)

const (
	ClaimStatusSubmitted = "SUBMITTED"
	ClaimStatusAccepted  = "ACCEPTED"
	ClaimStatusRejected  = "REJECTED"
)

// notifyAllowList maps a sender role to the roles it may address.
// Only ADMIN and MANAGER may broadcast to everyone.
var notifyAllowList = map[string][]string{
	RolePatient:       {RoleDoctor},
	RoleDoctor:        {RoleManager, RoleLabTechnician},
	RoleManager:       {RoleAdmin, RoleDoctor, RoleLabTechnician},
	RoleAdmin:         {RoleManager, RoleDoctor, RoleLabTechnician},
	RoleLabTechnician: {RoleDoctor, RoleManager},
}

// CanAddress reports whether senderRole may send notifications to targetRole.
func CanAddress(senderRole, targetRole string) bool {
	for _, r := range notifyAllowList[senderRole] {
		if r == targetRole {
			return true
		}
	}
	return false
}

// CanBroadcast reports whether senderRole may address the "all" audience.
func CanBroadcast(senderRole string) bool {
	return senderRole == RoleAdmin || senderRole == RoleManager
}

// ValidRole reports whether tag is one of the recognized role tags.
func ValidRole(tag string) bool {
	for _, r := range Roles {
		if r == tag {
			return true
		}
	}
	return false
}
