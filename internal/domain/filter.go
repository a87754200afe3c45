package domain

import "time"

// NotificationFilter narrows a recipient's notification listing. Zero
// values mean "no constraint"; date bounds are inclusive.
type NotificationFilter struct {
	UnreadOnly bool
	From       *time.Time
	To         *time.Time
	Query      string
}
