package auth

import (
	"strings"

	"github.com/spec-kit/workload-service/internal/domain"
	apperrors "github.com/spec-kit/workload-service/pkg/util"
)

// Action enumerates gated operations on an entity collection.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionUpload Action = "upload"
)

// Actor is the (role, identity) pair supplied by the session collaborator at
// module activation. Identity is the caller's email and may be empty.
type Actor struct {
	Role     domain.Role
	Identity string
}

// Authorize reports whether the role may perform the action. Uploads pass the
// role gate for both roles; ownership of the target record is checked
// separately by the module.
func Authorize(role domain.Role, action Action) error {
	if role == domain.RoleAdministrator {
		return nil
	}
	switch action {
	case ActionView, ActionUpload:
		return nil
	default:
		return apperrors.NewPermissionError("administrator role required to " + string(action))
	}
}

// OwnIndex resolves which record the actor owns: the record whose identity
// field matches the actor's identity case-insensitively, else the first
// record when nothing matches. The fallback keeps the profile view usable
// before login integration. Returns -1 only for an empty collection.
func OwnIndex[R any](records []R, identityOf func(R) string, actorIdentity string) int {
	if actorIdentity != "" {
		for i, record := range records {
			if strings.EqualFold(identityOf(record), actorIdentity) {
				return i
			}
		}
	}
	if len(records) > 0 {
		return 0
	}
	return -1
}
