package seeders

import (
	"context"
	"fmt"

	"biomed-system/internal/dto"
	"biomed-system/internal/services"
	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// step drives an already created work order one transition further.
type step func(ctx context.Context, svc services.WorkOrderServiceInterface, id string) error

func assignTo(technician string) step {
	return func(ctx context.Context, svc services.WorkOrderServiceInterface, id string) error {
		_, err := svc.Assign(ctx, id, dto.AssignWorkOrderDTO{AssignedTo: technician})
		return err
	}
}

func progressTo(status constants.WorkOrderStatus, parts string) step {
	return func(ctx context.Context, svc services.WorkOrderServiceInterface, id string) error {
		payload := dto.UpdateProgressDTO{Status: status}
		if parts != "" {
			payload.PartsNeeded = null.StringFrom(parts)
		}
		_, err := svc.UpdateProgress(ctx, id, payload)
		return err
	}
}

func closeOn(date, note string) step {
	return func(ctx context.Context, svc services.WorkOrderServiceInterface, id string) error {
		_, err := svc.Close(ctx, id, dto.CloseWorkOrderDTO{ClosedAt: null.StringFrom(date), Note: note})
		return err
	}
}

func certificate(url string) step {
	return func(ctx context.Context, svc services.WorkOrderServiceInterface, id string) error {
		_, err := svc.AttachCertificate(ctx, id, dto.CertificateDTO{URL: url})
		return err
	}
}

type demoWorkOrder struct {
	serial string
	order  dto.CreateWorkOrderDTO
	steps  []step
}

func date(year int, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// demoEquipment covers the semiannual, annual and unknown cadences.
func demoEquipment(year int) []dto.CreateEquipmentDTO {
	return []dto.CreateEquipmentDTO{
		{
			Name: "Monitor de signos vitales", Brand: "Mindray", Model: "uMEC12",
			SerialNumber: "DEMO-MON-001", Location: "UCI - Cubículo 1", InventoryNumber: "INV-010",
			LastMaintenanceDate: null.StringFrom(date(year-1, 8, 10)),
			NextMaintenanceDate: date(year, 2, 10),
		},
		{
			Name: "Ventilador mecánico", Brand: "Dräger", Model: "Savina 300",
			SerialNumber: "DEMO-VEN-002", Location: "UCI - Cubículo 2", InventoryNumber: "INV-002",
			LastMaintenanceDate: null.StringFrom(date(year-1, 3, 5)),
			NextMaintenanceDate: date(year, 3, 5),
		},
		{
			Name: "Desfibrilador", Brand: "Zoll", Model: "R Series",
			SerialNumber: "DEMO-DEF-003", Location: "Urgencias - Box 3", InventoryNumber: "INV-031",
			LastMaintenanceDate: null.StringFrom(date(year-1, 10, 20)),
			NextMaintenanceDate: date(year, 1, 20),
		},
		{
			Name: "Bomba de infusión", Brand: "B. Braun", Model: "Infusomat Space",
			SerialNumber: "DEMO-BOM-004", Location: "Hospitalización - Piso 2", InventoryNumber: "INV-104",
			NextMaintenanceDate: date(year, 6, 15),
		},
		{
			Name: "Electrocardiógrafo", Brand: "GE", Model: "MAC 2000",
			SerialNumber: "DEMO-ECG-005", Location: "Cardiología - Consultorio 1", InventoryNumber: "INV-005",
			LastMaintenanceDate: null.StringFrom(date(year-1, 4, 1)),
			NextMaintenanceDate: date(year, 4, 1),
		},
		{
			Name: "Autoclave", Brand: "Tuttnauer", Model: "3870EA",
			SerialNumber: "DEMO-AUT-006", Location: "Central de Esterilización", InventoryNumber: "INV-006",
			LastMaintenanceDate: null.StringFrom(date(year-1, 11, 10)),
			NextMaintenanceDate: date(year, 5, 10),
			LastCalibrationDate: null.StringFrom(date(year-1, 5, 2)),
			NextCalibrationDate: null.StringFrom(date(year, 5, 2)),
		},
	}
}

func demoWorkOrders(year int) []demoWorkOrder {
	return []demoWorkOrder{
		{
			serial: "DEMO-MON-001",
			order:  dto.CreateWorkOrderDTO{Type: constants.TypePreventive, Description: "MP1 semestral"},
			steps:  []step{assignTo("Ana Torres"), closeOn(date(year, 2, 12), "Sin observaciones")},
		},
		{
			serial: "DEMO-VEN-002",
			order:  dto.CreateWorkOrderDTO{Type: constants.TypeCorrective, Description: "Alarma de presión intermitente"},
		},
		{
			serial: "DEMO-DEF-003",
			order:  dto.CreateWorkOrderDTO{Type: constants.TypePreventive, Description: "MP1 semestral"},
			steps:  []step{assignTo("Luis Méndez"), closeOn(date(year, 1, 22), "Baterías revisadas")},
		},
		{
			serial: "DEMO-DEF-003",
			order:  dto.CreateWorkOrderDTO{Type: constants.TypePreventive, Description: "MP2 semestral"},
			steps:  []step{assignTo("Luis Méndez"), progressTo(constants.StatusAwaitingPart, "Parches pediátricos")},
		},
		{
			serial: "DEMO-ECG-005",
			order: dto.CreateWorkOrderDTO{
				Type:            constants.TypeDeparture,
				DepartureReason: string(constants.ReasonLoan),
				Description:     "Préstamo a Hospital Regional",
			},
		},
		{
			serial: "DEMO-AUT-006",
			order:  dto.CreateWorkOrderDTO{Type: constants.TypeCalibration, Description: "Calibración anual de sensores"},
			steps: []step{
				assignTo("Ana Torres"),
				certificate("https://certificados.example.org/autoclave-" + fmt.Sprint(year) + ".pdf"),
				closeOn(date(year, 5, 3), "Calibración dentro de tolerancia"),
			},
		},
	}
}
