package maintenance

import (
	"sort"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"
)

// isFailure reports whether an open order means the equipment has a reported failure.
func isFailure(wo entities.WorkOrder) bool {
	return wo.Type == constants.TypeCorrective || wo.Status == constants.StatusReported
}

// openOrdersOf keeps the non-closed orders that reference eq.
func openOrdersOf(eq entities.Equipment, orders []entities.WorkOrder) []entities.WorkOrder {
	var open []entities.WorkOrder
	for _, wo := range orders {
		if wo.EquipmentID == eq.ID && !wo.IsClosed() {
			open = append(open, wo)
		}
	}
	return open
}

// ResolveEffectiveStatus derives the status users see for eq.
//
// Precedence:
//  1. an open corrective order, or any open order still Reported: FailureReported
//  2. a transient special stored state with an open order: the stored state
//  3. stored OutOfService: OutOfService
//  4. otherwise Operational
//
// Closed orders and orders for other equipment are ignored, so passing the full
// collection is safe. Neither argument is modified.
func ResolveEffectiveStatus(eq entities.Equipment, openWorkOrders []entities.WorkOrder) constants.EquipmentStatus {
	open := openOrdersOf(eq, openWorkOrders)

	for _, wo := range open {
		if isFailure(wo) {
			return constants.EquipmentFailureReported
		}
	}
	if constants.IsTransientEquipmentStatus(eq.Status) && len(open) > 0 {
		return eq.Status
	}
	if eq.Status == constants.EquipmentOutOfService {
		return constants.EquipmentOutOfService
	}
	return constants.EquipmentOperational
}

// PrimaryWorkOrder picks the open order that drives the effective status when
// several exist: failure orders first, then the oldest, then the lowest id.
func PrimaryWorkOrder(eq entities.Equipment, openWorkOrders []entities.WorkOrder) (entities.WorkOrder, bool) {
	open := openOrdersOf(eq, openWorkOrders)
	if len(open) == 0 {
		return entities.WorkOrder{}, false
	}
	sort.SliceStable(open, func(i, j int) bool {
		fi, fj := isFailure(open[i]), isFailure(open[j])
		if fi != fj {
			return fi
		}
		if !open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].CreatedAt.Before(open[j].CreatedAt)
		}
		return open[i].ID < open[j].ID
	})
	return open[0], true
}

// --- Display descriptors (presentation only) ---

type StatusDisplay struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
}

var equipmentStatusDisplay = map[constants.EquipmentStatus]StatusDisplay{
	constants.EquipmentOperational:        {Label: "Operativo", Badge: "success"},
	constants.EquipmentInMaintenance:      {Label: "En mantenimiento", Badge: "warning"},
	constants.EquipmentOutOfService:       {Label: "Fuera de servicio", Badge: "dark"},
	constants.EquipmentLoan:               {Label: "Préstamo", Badge: "info"},
	constants.EquipmentDonation:           {Label: "Donación", Badge: "info"},
	constants.EquipmentReturn:             {Label: "Devolución", Badge: "info"},
	constants.EquipmentDiagnosis:          {Label: "Diagnóstico", Badge: "info"},
	constants.EquipmentPreventiveExternal: {Label: "Preventivo externo", Badge: "secondary"},
	constants.EquipmentCorrectiveExternal: {Label: "Correctivo externo", Badge: "secondary"},
	constants.EquipmentOther:              {Label: "Otro", Badge: "secondary"},
	constants.EquipmentFailureReported:    {Label: "Falla reportada", Badge: "danger"},
}

func DisplayFor(status constants.EquipmentStatus) StatusDisplay {
	if d, ok := equipmentStatusDisplay[status]; ok {
		return d
	}
	return StatusDisplay{Label: string(status), Badge: "secondary"}
}

// StatusDisplayed pairs a status with its display descriptor.
type StatusDisplayed struct {
	Status constants.EquipmentStatus `json:"status"`
	StatusDisplay
}
