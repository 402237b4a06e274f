package application

import (
	"github.com/kopidesk/identity-service/internal/domain/entity"
)

// Authorization decisions are pure functions over (caller, target, change
// set). They hold no state and are re-evaluated per request.

// UpdateMode is the outcome of the update-permission gate: it decides which
// fields the caller may change on the target.
type UpdateMode int

const (
	UpdateModeSelf UpdateMode = iota + 1
	UpdateModeAdmin
)

// CanAdminister gates list, get-by-id and delete: admin only.
func CanAdminister(caller *entity.User) error {
	if !caller.IsAdmin() {
		return ErrInsufficientPermission
	}
	return nil
}

// CanUpdate decides whether caller may update the target user at all.
// Updating yourself is allowed as self; updating anyone else requires the
// admin role. The target must already be resolved: a missing target is
// reported as not-found before this gate runs.
func CanUpdate(caller *entity.User, targetID string) (UpdateMode, error) {
	if targetID == caller.ID {
		return UpdateModeSelf, nil
	}
	if caller.IsAdmin() {
		return UpdateModeAdmin, nil
	}
	return 0, ErrInsufficientPermission
}

// CheckUpdateFields applies the field-level policy after the gate.
// Self may change the full name only; including role in the change set is
// rejected even when the new value equals the current one. Admin may change
// full name and role verbatim. Rejection is atomic: the caller applies
// nothing on error.
func CheckUpdateFields(mode UpdateMode, in UpdateUserInput) error {
	if mode == UpdateModeSelf && in.Role != nil {
		return ErrCannotChangeOwnRole
	}
	return nil
}
