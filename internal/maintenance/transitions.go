package maintenance

import (
	"fmt"
	"strings"
	"time"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// Calibration certificates are valid for a fixed twelve months.
const calibrationIntervalMonths = 12

type ActionKind string

const (
	ActionCreate            ActionKind = "create"
	ActionAssign            ActionKind = "assign"
	ActionUpdateProgress    ActionKind = "update_progress"
	ActionClose             ActionKind = "close"
	ActionAttachCertificate ActionKind = "attach_certificate"
	ActionRemoveCertificate ActionKind = "remove_certificate"
)

// Action is a user request against an existing work order.
// The set is closed: Assign, UpdateProgress, Close, AttachCertificate, RemoveCertificate.
type Action interface {
	Kind() ActionKind
	actor() string
}

type Assign struct {
	Actor    string
	Assignee string
}

type UpdateProgress struct {
	Actor               string
	Status              constants.WorkOrderStatus
	EquipmentStatus     *constants.EquipmentStatus
	PartsNeeded         null.String
	EstimatedRepairDate null.String
	Note                string
}

// Close resolves the order. ClosedAt is the closure date used for rollovers;
// the zero value means "now".
type Close struct {
	Actor    string
	ClosedAt time.Time
	Note     string
}

type AttachCertificate struct {
	Actor string
	URL   string
}

type RemoveCertificate struct {
	Actor string
}

func (Assign) Kind() ActionKind            { return ActionAssign }
func (UpdateProgress) Kind() ActionKind    { return ActionUpdateProgress }
func (Close) Kind() ActionKind             { return ActionClose }
func (AttachCertificate) Kind() ActionKind { return ActionAttachCertificate }
func (RemoveCertificate) Kind() ActionKind { return ActionRemoveCertificate }

func (a Assign) actor() string            { return a.Actor }
func (a UpdateProgress) actor() string    { return a.Actor }
func (a Close) actor() string             { return a.Actor }
func (a AttachCertificate) actor() string { return a.Actor }
func (a RemoveCertificate) actor() string { return a.Actor }

// EquipmentDelta lists the equipment fields a transition changes. Unset
// (nil / invalid) fields stay as they are. It must be persisted in the same
// transaction as the work order and its new history entries.
type EquipmentDelta struct {
	EquipmentID         string                     `json:"equipmentId"`
	Status              *constants.EquipmentStatus `json:"status,omitempty"`
	LastMaintenanceDate null.String                `json:"lastMaintenanceDate"`
	NextMaintenanceDate null.String                `json:"nextMaintenanceDate"`
	LastCalibrationDate null.String                `json:"lastCalibrationDate"`
	NextCalibrationDate null.String                `json:"nextCalibrationDate"`

	// Cadence used for a maintenance rollover. AssumedCadence is set when the
	// prior dates gave no usable cadence and the six-month default was applied.
	Cadence        Cadence `json:"cadence,omitempty"`
	AssumedCadence bool    `json:"assumedCadence"`
}

func (d *EquipmentDelta) IsEmpty() bool {
	return d == nil || (d.Status == nil &&
		!d.LastMaintenanceDate.Valid && !d.NextMaintenanceDate.Valid &&
		!d.LastCalibrationDate.Valid && !d.NextCalibrationDate.Valid)
}

// Apply returns eq with the delta applied.
func (d *EquipmentDelta) Apply(eq entities.Equipment) entities.Equipment {
	if d == nil {
		return eq
	}
	if d.Status != nil {
		eq.Status = *d.Status
	}
	if d.LastMaintenanceDate.Valid {
		eq.LastMaintenanceDate = d.LastMaintenanceDate
	}
	if d.NextMaintenanceDate.Valid {
		eq.NextMaintenanceDate = d.NextMaintenanceDate.String
	}
	if d.LastCalibrationDate.Valid {
		eq.LastCalibrationDate = d.LastCalibrationDate
	}
	if d.NextCalibrationDate.Valid {
		eq.NextCalibrationDate = d.NextCalibrationDate
	}
	return eq
}

// TransitionResult is the new work order plus the equipment changes it implies.
type TransitionResult struct {
	WorkOrder      entities.WorkOrder `json:"workOrder"`
	EquipmentDelta *EquipmentDelta    `json:"equipmentDelta,omitempty"`
}

// CreateInput is what a caller supplies to open a new work order.
type CreateInput struct {
	ID                  string
	EquipmentID         string
	Type                constants.WorkOrderType
	DepartureReason     string
	Description         string
	ReportedBy          string
	AssignedTo          string
	EstimatedRepairDate null.String
	PartsNeeded         null.String
	Actor               string
}

// NewWorkOrder builds a work order in its initial state.
// Failure reports start Reported (Open when created with an assignee);
// departure orders start in the variant implied by their reason and move the
// equipment to the matching stored status.
func NewWorkOrder(in CreateInput, now time.Time) (TransitionResult, error) {
	if g := CanCreate(CreateContext{EquipmentID: in.EquipmentID, Type: in.Type, DepartureReason: in.DepartureReason}); !g.Allowed {
		return TransitionResult{}, &TransitionError{WorkOrderID: in.ID, Action: ActionCreate, Reason: g.Reason}
	}

	wo := entities.WorkOrder{
		ID:                  in.ID,
		EquipmentID:         in.EquipmentID,
		Type:                in.Type,
		Status:              constants.StatusReported,
		Description:         in.Description,
		EstimatedRepairDate: in.EstimatedRepairDate,
		PartsNeeded:         in.PartsNeeded,
		CreatedAt:           now,
	}
	if in.ReportedBy != "" {
		wo.ReportedBy = null.StringFrom(in.ReportedBy)
	}

	var delta *EquipmentDelta
	switch {
	case in.Type == constants.TypeDeparture:
		rule, _ := LookupDeparture(in.DepartureReason)
		wo.Status = rule.WorkOrderStatus
		wo.DepartureReason = null.StringFrom(strings.ToLower(strings.TrimSpace(in.DepartureReason)))
		status := rule.EquipmentStatus
		delta = &EquipmentDelta{EquipmentID: in.EquipmentID, Status: &status}
	case in.AssignedTo != "":
		wo.Status = constants.StatusOpen
		wo.AssignedTo = null.StringFrom(in.AssignedTo)
		status := constants.EquipmentInMaintenance
		delta = &EquipmentDelta{EquipmentID: in.EquipmentID, Status: &status}
	}

	wo.History = entities.NewHistory(entry(now, in.Actor, "work order created"))
	return TransitionResult{WorkOrder: wo, EquipmentDelta: delta}, nil
}

// Transition applies action to wo. eq must be the equipment wo references.
// On error nothing is returned: the caller keeps wo and eq exactly as they were.
func Transition(wo entities.WorkOrder, eq entities.Equipment, action Action, now time.Time) (TransitionResult, error) {
	if action == nil {
		return TransitionResult{}, &TransitionError{WorkOrderID: wo.ID, From: wo.Status, Reason: "no action given"}
	}
	if wo.EquipmentID != eq.ID {
		return TransitionResult{}, reject(wo, action, denied("work order references equipment %s, got %s", wo.EquipmentID, eq.ID))
	}

	switch a := action.(type) {
	case Assign:
		return applyAssign(wo, a, now)
	case UpdateProgress:
		return applyProgress(wo, a, now)
	case Close:
		return applyClose(wo, eq, a, now)
	case AttachCertificate:
		return applyCertificate(wo, a.URL, false, a.Actor, now)
	case RemoveCertificate:
		return applyCertificate(wo, "", true, a.Actor, now)
	default:
		return TransitionResult{}, reject(wo, action, denied("unsupported action %s", action.Kind()))
	}
}

func applyAssign(wo entities.WorkOrder, a Assign, now time.Time) (TransitionResult, error) {
	assignee := strings.TrimSpace(a.Assignee)
	g := CanAssign(AssignContext{WorkOrderID: wo.ID, Status: wo.Status, IsDeparture: wo.IsDeparture(), Assignee: assignee})
	if !g.Allowed {
		return TransitionResult{}, reject(wo, a, g)
	}

	var delta *EquipmentDelta
	text := fmt.Sprintf("reassigned to %s", assignee)
	if wo.Status == constants.StatusReported {
		wo.Status = constants.StatusOpen
		status := constants.EquipmentInMaintenance
		delta = &EquipmentDelta{EquipmentID: wo.EquipmentID, Status: &status}
		text = fmt.Sprintf("assigned to %s", assignee)
	}
	wo.AssignedTo = null.StringFrom(assignee)
	wo = touch(wo, now, a.Actor, text)
	return TransitionResult{WorkOrder: wo, EquipmentDelta: delta}, nil
}

func applyProgress(wo entities.WorkOrder, a UpdateProgress, now time.Time) (TransitionResult, error) {
	g := CanUpdateProgress(ProgressContext{
		WorkOrderID:     wo.ID,
		From:            wo.Status,
		To:              a.Status,
		IsDeparture:     wo.IsDeparture(),
		EquipmentStatus: a.EquipmentStatus,
	})
	if !g.Allowed {
		return TransitionResult{}, reject(wo, a, g)
	}
	if a.EstimatedRepairDate.Valid {
		if _, ok := ParseDate(a.EstimatedRepairDate.String); !ok {
			return TransitionResult{}, reject(wo, a, denied("estimated repair date %q is not a YYYY-MM-DD date", a.EstimatedRepairDate.String))
		}
		wo.EstimatedRepairDate = a.EstimatedRepairDate
	}
	if a.PartsNeeded.Valid {
		wo.PartsNeeded = a.PartsNeeded
	}

	text := fmt.Sprintf("progress updated (%s)", a.Status)
	if a.Status != wo.Status {
		text = fmt.Sprintf("status changed from %s to %s", wo.Status, a.Status)
	}
	if note := strings.TrimSpace(a.Note); note != "" {
		text += ": " + note
	}
	wo.Status = a.Status
	wo = touch(wo, now, a.Actor, text)

	var delta *EquipmentDelta
	if a.EquipmentStatus != nil {
		status := *a.EquipmentStatus
		delta = &EquipmentDelta{EquipmentID: wo.EquipmentID, Status: &status}
	}
	return TransitionResult{WorkOrder: wo, EquipmentDelta: delta}, nil
}

func applyClose(wo entities.WorkOrder, eq entities.Equipment, a Close, now time.Time) (TransitionResult, error) {
	if g := CanClose(CloseContext{WorkOrderID: wo.ID, Status: wo.Status}); !g.Allowed {
		return TransitionResult{}, reject(wo, a, g)
	}

	closedAt := a.ClosedAt
	if closedAt.IsZero() {
		closedAt = now
	}
	closureDate := calendarDate(closedAt)
	delta := &EquipmentDelta{EquipmentID: eq.ID}

	switch wo.Type {
	case constants.TypePreventive:
		cadence, ok := CadenceOf(eq)
		if !ok {
			cadence = CadenceSemiAnnual
			delta.AssumedCadence = true
		}
		delta.Cadence = cadence
		delta.LastMaintenanceDate = null.StringFrom(FormatDate(closureDate))
		delta.NextMaintenanceDate = null.StringFrom(FormatDate(addMonths(closureDate, cadence.Months())))
	case constants.TypeCalibration:
		delta.LastCalibrationDate = null.StringFrom(FormatDate(closureDate))
		delta.NextCalibrationDate = null.StringFrom(FormatDate(addMonths(closureDate, calibrationIntervalMonths)))
	}

	// Any closure brings the equipment back into service, even from a special
	// state, unless the order itself is a departure.
	if eq.Status != constants.EquipmentOperational && !wo.IsDeparture() {
		status := constants.EquipmentOperational
		delta.Status = &status
	}

	text := "work order closed"
	if note := strings.TrimSpace(a.Note); note != "" {
		text += ": " + note
	}
	wo.Status = constants.StatusClosed
	wo = touch(wo, now, a.Actor, text)

	if delta.IsEmpty() {
		delta = nil
	}
	return TransitionResult{WorkOrder: wo, EquipmentDelta: delta}, nil
}

func applyCertificate(wo entities.WorkOrder, url string, removing bool, actor string, now time.Time) (TransitionResult, error) {
	url = strings.TrimSpace(url)
	g := CanChangeCertificate(CertificateContext{WorkOrderID: wo.ID, Type: wo.Type, Status: wo.Status, URL: url, Removing: removing})
	if !g.Allowed {
		var action Action = AttachCertificate{Actor: actor, URL: url}
		if removing {
			action = RemoveCertificate{Actor: actor}
		}
		return TransitionResult{}, reject(wo, action, g)
	}

	if removing {
		wo.CalibrationCertificateURL = null.String{}
		wo = touch(wo, now, actor, "calibration certificate removed")
	} else {
		wo.CalibrationCertificateURL = null.StringFrom(url)
		wo = touch(wo, now, actor, fmt.Sprintf("calibration certificate attached: %s", url))
	}
	return TransitionResult{WorkOrder: wo}, nil
}

func touch(wo entities.WorkOrder, now time.Time, actor, text string) entities.WorkOrder {
	wo.History = wo.History.Append(entry(now, actor, text))
	updated := now
	wo.UpdatedAt = &updated
	return wo
}

func entry(now time.Time, actor, text string) entities.HistoryEntry {
	if actor == "" {
		actor = constants.SystemActor
	}
	return entities.HistoryEntry{Timestamp: now, UserID: actor, Action: text}
}

func reject(wo entities.WorkOrder, action Action, g GuardResult) error {
	return &TransitionError{WorkOrderID: wo.ID, Action: action.Kind(), From: wo.Status, Reason: g.Reason}
}
