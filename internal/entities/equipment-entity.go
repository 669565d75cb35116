package entities

import (
	"biomed-system/pkg/constants"
	"biomed-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// Equipment is a physical asset under management.
// Status is the last explicitly set status, not the displayed one.
type Equipment struct {
	ID              string                    `json:"id" db:"id"`
	Name            string                    `json:"name" db:"name"`
	Brand           string                    `json:"brand" db:"brand"`
	Model           string                    `json:"model" db:"model"`
	SerialNumber    string                    `json:"serialNumber" db:"serial_number"`
	Location        string                    `json:"location" db:"location"`
	InventoryNumber string                    `json:"inventoryNumber" db:"inventory_number"`
	Status          constants.EquipmentStatus `json:"status" db:"status"`

	// YYYY-MM-DD; NextMaintenanceDate is mandatory.
	LastMaintenanceDate null.String `json:"lastMaintenanceDate" db:"last_maintenance_date"`
	NextMaintenanceDate string      `json:"nextMaintenanceDate" db:"next_maintenance_date"`
	LastCalibrationDate null.String `json:"lastCalibrationDate" db:"last_calibration_date"`
	NextCalibrationDate null.String `json:"nextCalibrationDate" db:"next_calibration_date"`

	types.BaseEntity
}
