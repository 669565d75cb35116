package dto

import (
	"biomed-system/internal/entities"
	"biomed-system/internal/maintenance"
	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name            string `json:"name" validate:"required"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	SerialNumber    string `json:"serialNumber" validate:"required"`
	Location        string `json:"location"`
	InventoryNumber string `json:"inventoryNumber"`

	// Status defaults to OPERATIONAL.
	Status constants.EquipmentStatus `json:"status" validate:"omitempty,equipment_status"`

	LastMaintenanceDate null.String `json:"lastMaintenanceDate" validate:"omitempty,date_ymd"`
	NextMaintenanceDate string      `json:"nextMaintenanceDate" validate:"required,date_ymd"`
	LastCalibrationDate null.String `json:"lastCalibrationDate" validate:"omitempty,date_ymd"`
	NextCalibrationDate null.String `json:"nextCalibrationDate" validate:"omitempty,date_ymd"`
}

// UpdateEquipmentDTO is the administrative edit. Absent fields keep their value.
// Maintenance dates only move when a preventive work order closes.
type UpdateEquipmentDTO struct {
	Name            *string                    `json:"name,omitempty" validate:"omitempty,min=1"`
	Brand           *string                    `json:"brand,omitempty"`
	Model           *string                    `json:"model,omitempty"`
	SerialNumber    *string                    `json:"serialNumber,omitempty" validate:"omitempty,min=1"`
	Location        *string                    `json:"location,omitempty"`
	InventoryNumber *string                    `json:"inventoryNumber,omitempty"`
	Status          *constants.EquipmentStatus `json:"status,omitempty" validate:"omitempty,equipment_status"`

	LastCalibrationDate null.String `json:"lastCalibrationDate" validate:"omitempty,date_ymd"`
	NextCalibrationDate null.String `json:"nextCalibrationDate" validate:"omitempty,date_ymd"`
}

// EquipmentDTO is an equipment record together with the status shown to users.
type EquipmentDTO struct {
	entities.Equipment
	EffectiveStatus    maintenance.StatusDisplayed `json:"effectiveStatus"`
	PrimaryWorkOrderID null.String                 `json:"primaryWorkOrderId"`
	OpenWorkOrderCount int                         `json:"openWorkOrderCount"`
	// MaintenanceCadence is empty when the dates give no usable cadence.
	MaintenanceCadence string `json:"maintenanceCadence"`
}

// EquipmentScheduleDTO is the preventive plan of one equipment for a year.
type EquipmentScheduleDTO struct {
	EquipmentID string                      `json:"equipmentId"`
	Year        int                         `json:"year"`
	Months      [12]null.String             `json:"months"`
	Visits      []maintenance.VisitResult   `json:"visits"`
	Aggregate   maintenance.AggregateStatus `json:"aggregate"`
}

type EquipmentDetailDTO struct {
	EquipmentDTO
	Schedule EquipmentScheduleDTO `json:"schedule"`
}

type ImportRowErrorDTO struct {
	Row     int    `json:"row"`
	Serial  string `json:"serialNumber,omitempty"`
	Message string `json:"message"`
}

type ImportResultDTO struct {
	Sheet   string              `json:"sheet"`
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Skipped int                 `json:"skipped"`
	Errors  []ImportRowErrorDTO `json:"errors"`
}
