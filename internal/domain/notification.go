package domain

// NotificationKind enumerates transient status message kinds.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationDelete  NotificationKind = "delete"
)

// Notification is the transient, auto-dismissing status message shown after
// an operation. At most one is visible per module at a time.
type Notification struct {
	Visible bool             `json:"visible"`
	Text    string           `json:"text"`
	Kind    NotificationKind `json:"kind"`
}
