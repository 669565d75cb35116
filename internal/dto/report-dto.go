package dto

import (
	"biomed-system/internal/maintenance"
)

type AnnualReportDTO struct {
	Year        int                     `json:"year"`
	Today       string                  `json:"today"`
	GeneratedAt string                  `json:"generatedAt"`
	Rows        []maintenance.ReportRow `json:"rows"`
	// DanglingWorkOrders lists ids of orders whose equipment no longer exists.
	DanglingWorkOrders []string `json:"danglingWorkOrders,omitempty"`
}
