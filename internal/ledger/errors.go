package ledger

import "errors"

// Failure taxonomy surfaced to the request layer. Anything else coming out of
// the engine is an unexpected persistence failure and is wrapped with its cause.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means a unique field is already taken (e.g. email).
	ErrConflict = errors.New("conflict")
)

// Authorize is the single ownership policy: a caller may act on a resource
// only if they own it. Every per-entity check goes through here.
func Authorize(callerID, ownerID uint) error {
	if callerID != ownerID {
		return ErrForbidden
	}
	return nil
}
