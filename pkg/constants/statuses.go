package constants

// --- EQUIPMENT STATUSES (match the codes stored in the DB) ---

// EquipmentStatus is the stored lifecycle state of an equipment record.
type EquipmentStatus string

const (
	EquipmentOperational        EquipmentStatus = "OPERATIONAL"
	EquipmentInMaintenance      EquipmentStatus = "IN_MAINTENANCE"
	EquipmentOutOfService       EquipmentStatus = "OUT_OF_SERVICE"
	EquipmentLoan               EquipmentStatus = "LOAN"
	EquipmentDonation           EquipmentStatus = "DONATION"
	EquipmentReturn             EquipmentStatus = "RETURN"
	EquipmentDiagnosis          EquipmentStatus = "DIAGNOSIS"
	EquipmentPreventiveExternal EquipmentStatus = "PREVENTIVE_EXTERNAL"
	EquipmentCorrectiveExternal EquipmentStatus = "CORRECTIVE_EXTERNAL"
	EquipmentOther              EquipmentStatus = "OTHER"

	// EquipmentFailureReported is never stored; it only exists as an effective status.
	EquipmentFailureReported EquipmentStatus = "FAILURE_REPORTED"
)

// StoredEquipmentStatuses can be written to an equipment record.
var StoredEquipmentStatuses = []EquipmentStatus{
	EquipmentOperational,
	EquipmentInMaintenance,
	EquipmentOutOfService,
	EquipmentLoan,
	EquipmentDonation,
	EquipmentReturn,
	EquipmentDiagnosis,
	EquipmentPreventiveExternal,
	EquipmentCorrectiveExternal,
	EquipmentOther,
}

// Transient special states are kept on display while a work order is open.
var transientEquipmentStatuses = map[EquipmentStatus]struct{}{
	EquipmentLoan:               {},
	EquipmentDonation:           {},
	EquipmentReturn:             {},
	EquipmentDiagnosis:          {},
	EquipmentPreventiveExternal: {},
	EquipmentCorrectiveExternal: {},
	EquipmentOther:              {},
}

func IsTransientEquipmentStatus(s EquipmentStatus) bool {
	_, ok := transientEquipmentStatuses[s]
	return ok
}

func IsStoredEquipmentStatus(s EquipmentStatus) bool {
	for _, v := range StoredEquipmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// --- WORK ORDER STATUSES ---

type WorkOrderStatus string

const (
	StatusReported     WorkOrderStatus = "REPORTED"
	StatusOpen         WorkOrderStatus = "OPEN"
	StatusInProgress   WorkOrderStatus = "IN_PROGRESS"
	StatusAwaitingPart WorkOrderStatus = "AWAITING_PART"
	StatusClosed       WorkOrderStatus = "CLOSED"

	// Departure variants
	StatusOnLoan             WorkOrderStatus = "ON_LOAN"
	StatusReturned           WorkOrderStatus = "RETURNED"
	StatusForDiagnosis       WorkOrderStatus = "FOR_DIAGNOSIS"
	StatusExternalPreventive WorkOrderStatus = "EXTERNAL_PREVENTIVE"
	StatusExternalCorrective WorkOrderStatus = "EXTERNAL_CORRECTIVE"
	StatusOtherDeparture     WorkOrderStatus = "OTHER_DEPARTURE"
)

var DepartureStatuses = []WorkOrderStatus{
	StatusOnLoan,
	StatusReturned,
	StatusForDiagnosis,
	StatusExternalPreventive,
	StatusExternalCorrective,
	StatusOtherDeparture,
}

func IsDepartureStatus(s WorkOrderStatus) bool {
	for _, d := range DepartureStatuses {
		if d == s {
			return true
		}
	}
	return false
}

// IsFinalStatus reports whether the work order no longer accepts transitions.
func IsFinalStatus(s WorkOrderStatus) bool {
	return s == StatusClosed
}

// IsWorkingStatus covers the free-form progress states of the standard chain.
func IsWorkingStatus(s WorkOrderStatus) bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusAwaitingPart
}

// --- WORK ORDER TYPES ---

type WorkOrderType string

const (
	TypePreventive   WorkOrderType = "PREVENTIVE"
	TypeCorrective   WorkOrderType = "CORRECTIVE"
	TypeCalibration  WorkOrderType = "CALIBRATION"
	TypeInstallation WorkOrderType = "INSTALLATION"
	TypeTraining     WorkOrderType = "TRAINING"
	TypeCheck        WorkOrderType = "CHECK"
	TypeDeparture    WorkOrderType = "DEPARTURE"
	TypeOther        WorkOrderType = "OTHER"
)

var WorkOrderTypes = []WorkOrderType{
	TypePreventive,
	TypeCorrective,
	TypeCalibration,
	TypeInstallation,
	TypeTraining,
	TypeCheck,
	TypeDeparture,
	TypeOther,
}

func IsWorkOrderType(t WorkOrderType) bool {
	for _, v := range WorkOrderTypes {
		if v == t {
			return true
		}
	}
	return false
}

// --- DEPARTURE REASONS ---

type DepartureReason string

const (
	ReasonLoan               DepartureReason = "loan"
	ReasonDonation           DepartureReason = "donation"
	ReasonReturn             DepartureReason = "return"
	ReasonDiagnosis          DepartureReason = "diagnosis"
	ReasonExternalPreventive DepartureReason = "external_preventive"
	ReasonExternalCorrective DepartureReason = "external_corrective"
	ReasonOther              DepartureReason = "other"
)

var DepartureReasonList = []DepartureReason{
	ReasonLoan,
	ReasonDonation,
	ReasonReturn,
	ReasonDiagnosis,
	ReasonExternalPreventive,
	ReasonExternalCorrective,
	ReasonOther,
}
