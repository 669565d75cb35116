package maintenance

import (
	"fmt"

	"biomed-system/pkg/constants"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // populated when not allowed
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func allowed() GuardResult { return GuardResult{Allowed: true} }

func denied(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CreateContext provides context for work order creation.
type CreateContext struct {
	EquipmentID     string
	Type            constants.WorkOrderType
	DepartureReason string
}

// CanCreate evaluates whether a work order can be created.
// Rule: departure orders need a known reason; other types must not carry one.
func CanCreate(ctx CreateContext) GuardResult {
	if ctx.EquipmentID == "" {
		return denied("an equipment reference is required")
	}
	if !constants.IsWorkOrderType(ctx.Type) {
		return denied("unknown work order type %q", ctx.Type)
	}
	if ctx.Type == constants.TypeDeparture {
		if _, ok := LookupDeparture(ctx.DepartureReason); !ok {
			return denied("unknown departure reason %q", ctx.DepartureReason)
		}
		return allowed()
	}
	if ctx.DepartureReason != "" {
		return denied("a departure reason only applies to departure orders")
	}
	return allowed()
}

// AssignContext provides context for technician assignment.
type AssignContext struct {
	WorkOrderID string
	Status      constants.WorkOrderStatus
	IsDeparture bool
	Assignee    string
}

// CanAssign evaluates whether a technician can be assigned.
// Rule: only open standard-chain orders accept an assignee, and one must be given.
func CanAssign(ctx AssignContext) GuardResult {
	if constants.IsFinalStatus(ctx.Status) {
		return denied("work order %s is closed", ctx.WorkOrderID)
	}
	if ctx.IsDeparture {
		return denied("departure order %s does not take technician assignments", ctx.WorkOrderID)
	}
	if ctx.Assignee == "" {
		return denied("an assignee is required")
	}
	if ctx.Status != constants.StatusReported && !constants.IsWorkingStatus(ctx.Status) {
		return denied("work order %s is in unexpected status %s", ctx.WorkOrderID, ctx.Status)
	}
	return allowed()
}

// ProgressContext provides context for progress updates.
type ProgressContext struct {
	WorkOrderID     string
	From            constants.WorkOrderStatus
	To              constants.WorkOrderStatus
	IsDeparture     bool
	EquipmentStatus *constants.EquipmentStatus
}

// CanUpdateProgress evaluates a move among Open, InProgress and AwaitingPart.
// Rule: Reported orders must be assigned first; closing goes through CanClose.
func CanUpdateProgress(ctx ProgressContext) GuardResult {
	if constants.IsFinalStatus(ctx.From) {
		return denied("work order %s is closed", ctx.WorkOrderID)
	}
	if ctx.IsDeparture {
		return denied("departure order %s does not follow the standard chain", ctx.WorkOrderID)
	}
	if ctx.From == constants.StatusReported {
		return denied("work order %s must be assigned before progress can be recorded", ctx.WorkOrderID)
	}
	if !constants.IsWorkingStatus(ctx.To) {
		return denied("%s is not a progress status", ctx.To)
	}
	if ctx.EquipmentStatus != nil &&
		*ctx.EquipmentStatus != constants.EquipmentInMaintenance &&
		*ctx.EquipmentStatus != constants.EquipmentOutOfService {
		return denied("equipment status %s cannot be set from a progress update", *ctx.EquipmentStatus)
	}
	return allowed()
}

// CloseContext provides context for closure.
type CloseContext struct {
	WorkOrderID string
	Status      constants.WorkOrderStatus
}

// CanClose evaluates whether a work order can be closed.
// Rule: any non-closed order, departure variants included, can be closed.
func CanClose(ctx CloseContext) GuardResult {
	if constants.IsFinalStatus(ctx.Status) {
		return denied("work order %s is already closed", ctx.WorkOrderID)
	}
	return allowed()
}

// CertificateContext provides context for certificate attach/remove.
type CertificateContext struct {
	WorkOrderID string
	Type        constants.WorkOrderType
	Status      constants.WorkOrderStatus
	URL         string
	Removing    bool
}

// CanChangeCertificate evaluates certificate changes.
// Rule: calibration orders only, while not closed.
func CanChangeCertificate(ctx CertificateContext) GuardResult {
	if ctx.Type != constants.TypeCalibration {
		return denied("work order %s is not a calibration order", ctx.WorkOrderID)
	}
	if constants.IsFinalStatus(ctx.Status) {
		return denied("work order %s is closed", ctx.WorkOrderID)
	}
	if !ctx.Removing && ctx.URL == "" {
		return denied("a certificate URL is required")
	}
	return allowed()
}
