package entities

import (
	"time"

	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// WorkOrder is a unit of scheduled or reactive work against one Equipment.
// EquipmentID and Type never change after creation.
type WorkOrder struct {
	ID                        string                    `json:"id" db:"id"`
	EquipmentID               string                    `json:"equipmentId" db:"equipment_id"`
	Type                      constants.WorkOrderType   `json:"type" db:"type"`
	Status                    constants.WorkOrderStatus `json:"status" db:"status"`
	DepartureReason           null.String               `json:"departureReason" db:"departure_reason"`
	Description               string                    `json:"description" db:"description"`
	EstimatedRepairDate       null.String               `json:"estimatedRepairDate" db:"estimated_repair_date"`
	PartsNeeded               null.String               `json:"partsNeeded" db:"parts_needed"`
	AssignedTo                null.String               `json:"assignedTo" db:"assigned_to"`
	ReportedBy                null.String               `json:"reportedBy" db:"reported_by"`
	CalibrationCertificateURL null.String               `json:"calibrationCertificateUrl" db:"calibration_certificate_url"`
	CreatedAt                 time.Time                 `json:"createdAt" db:"created_at"`
	UpdatedAt                 *time.Time                `json:"updatedAt,omitempty" db:"updated_at"`
	History                   History                   `json:"history" db:"-"`
}

func (w WorkOrder) IsClosed() bool {
	return constants.IsFinalStatus(w.Status)
}

func (w WorkOrder) IsDeparture() bool {
	return w.Type == constants.TypeDeparture || constants.IsDepartureStatus(w.Status)
}

// CompletedAt is the timestamp of the last history entry, falling back to CreatedAt.
func (w WorkOrder) CompletedAt() time.Time {
	if last, ok := w.History.Last(); ok {
		return last.Timestamp
	}
	return w.CreatedAt
}
