package ledger

import (
	"errors"
	"fmt"
)

// Business-rule rejections. Every check runs before any write, so a failing
// call has zero side effects; none of these are retried internally.
// Infrastructure failures (db, lock) are wrapped plainly and stay distinct so
// callers can retry them.
var (
	ErrNotFound                 = errors.New("referenced entity not found")
	ErrTenantMismatch           = errors.New("event tenant does not match acting user")
	ErrPermissionDenied         = errors.New("event type not permitted for role")
	ErrNegativeBalancePrevented = errors.New("resulting balance would be negative")
	ErrReasonCodeMismatch       = errors.New("reason code type does not match event type")
	ErrInvalidUOM               = errors.New("no unit conversion for item")
)

// ValidationError reports malformed input: a missing required location, an
// unknown event type, a zero quantity.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
