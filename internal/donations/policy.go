package donations

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
)

// Operation is a donation lifecycle action subject to authorization.
type Operation string

const (
	OpView    Operation = "view"
	OpUpdate  Operation = "update"
	OpCancel  Operation = "cancel"
	OpClaim   Operation = "claim"
	OpFulfill Operation = "fulfill"
)

var (
	// ErrForbidden means the caller's role or ownership does not permit the operation.
	ErrForbidden = errors.New("access denied")
	// ErrSelfClaim means an organization tried to claim its own donation.
	ErrSelfClaim = errors.New("cannot claim a donation from yourself")
)

// StatusError reports an operation attempted against a donation whose current
// status does not allow it.
type StatusError struct {
	Op      Operation
	Current models.DonationStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot %s donation with status %q", e.Op, e.Current)
}

// requiredStatus maps each mutating operation to the only status it may run in.
// The transition graph is available -> pending -> fulfilled, available ->
// cancelled; nothing re-enters available.
var requiredStatus = map[Operation]models.DonationStatus{
	OpUpdate:  models.StatusAvailable,
	OpCancel:  models.StatusAvailable,
	OpClaim:   models.StatusAvailable,
	OpFulfill: models.StatusPending,
}

// Authorize is the single policy for donation access, keyed by operation,
// caller role, and ownership. It returns nil when the caller may perform op on
// d, ErrForbidden / ErrSelfClaim on role or ownership violations, and a
// *StatusError when the donation's current status does not allow the
// transition.
func Authorize(op Operation, callerType models.UserType, callerID uuid.UUID, d *models.Donation) error {
	switch op {
	case OpView:
		// Organizations may view any donation; donors only their own.
		if callerType == models.UserTypeDonor && d.DonorID != callerID {
			return ErrForbidden
		}
		return nil
	case OpUpdate, OpCancel, OpFulfill:
		if callerType != models.UserTypeDonor {
			return ErrForbidden
		}
		if d.DonorID != callerID {
			return ErrForbidden
		}
	case OpClaim:
		if callerType != models.UserTypeOrganization {
			return ErrForbidden
		}
		if d.DonorID == callerID {
			return ErrSelfClaim
		}
	default:
		return ErrForbidden
	}

	if want := requiredStatus[op]; d.Status != want {
		return &StatusError{Op: op, Current: d.Status}
	}
	return nil
}
