package domain

// Kind enumerates the managed entity kinds.
type Kind string

const (
	KindStaff  Kind = "staff"
	KindCourse Kind = "course"
	KindTask   Kind = "task"
)

// Role enumerates permission levels supplied by the session collaborator.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleStaff         Role = "STAFF"
)

// Record is the shared identifying contract every managed entity satisfies.
// ID is unique within its collection and stable across edits; Code is the
// human-readable secondary identifier (STAFF003, COURSE012, T004).
type Record interface {
	RecordID() int
	Code() string
}
