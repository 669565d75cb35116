package dto

import (
	"biomed-system/internal/entities"
	"biomed-system/internal/maintenance"
	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

type CreateWorkOrderDTO struct {
	EquipmentID         string                  `json:"equipmentId" validate:"required"`
	Type                constants.WorkOrderType `json:"type" validate:"required,work_order_type"`
	DepartureReason     string                  `json:"departureReason" validate:"omitempty,departure_reason"`
	Description         string                  `json:"description" validate:"max=2000"`
	AssignedTo          string                  `json:"assignedTo"`
	EstimatedRepairDate null.String             `json:"estimatedRepairDate" validate:"omitempty,date_ymd"`
	PartsNeeded         null.String             `json:"partsNeeded"`
}

type AssignWorkOrderDTO struct {
	AssignedTo string `json:"assignedTo" validate:"required"`
}

type UpdateProgressDTO struct {
	Status              constants.WorkOrderStatus  `json:"status" validate:"required"`
	EquipmentStatus     *constants.EquipmentStatus `json:"equipmentStatus,omitempty" validate:"omitempty,equipment_status"`
	PartsNeeded         null.String                `json:"partsNeeded"`
	EstimatedRepairDate null.String                `json:"estimatedRepairDate" validate:"omitempty,date_ymd"`
	Note                string                     `json:"note" validate:"max=2000"`
}

type CloseWorkOrderDTO struct {
	// ClosedAt defaults to the current date.
	ClosedAt null.String `json:"closedAt" validate:"omitempty,date_ymd"`
	Note     string      `json:"note" validate:"max=2000"`
}

type CertificateDTO struct {
	URL string `json:"url" validate:"required,url"`
}

// WorkOrderResultDTO is returned by every work order mutation.
type WorkOrderResultDTO struct {
	WorkOrder      entities.WorkOrder          `json:"workOrder"`
	EquipmentDelta *maintenance.EquipmentDelta `json:"equipmentDelta,omitempty"`
	// EquipmentStatus is the effective status after the change, read in the same transaction.
	EquipmentStatus maintenance.StatusDisplayed `json:"equipmentStatus"`
	Warnings        []string                    `json:"warnings,omitempty"`
}
