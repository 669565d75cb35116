package maintenance

import (
	"time"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

func equipmentWithDates(id, last, next string) entities.Equipment {
	eq := entities.Equipment{
		ID:                  id,
		Name:                "Monitor de signos vitales",
		Location:            "UCI - Cama 3",
		Status:              constants.EquipmentOperational,
		NextMaintenanceDate: next,
	}
	if last != "" {
		eq.LastMaintenanceDate = null.StringFrom(last)
	}
	return eq
}

func closedPreventive(id, equipmentID string, at time.Time) entities.WorkOrder {
	return entities.WorkOrder{
		ID:          id,
		EquipmentID: equipmentID,
		Type:        constants.TypePreventive,
		Status:      constants.StatusClosed,
		CreatedAt:   at.Add(-2 * time.Hour),
		History: entities.NewHistory(
			entities.HistoryEntry{Timestamp: at.Add(-2 * time.Hour), UserID: "u-1", Action: "work order created"},
			entities.HistoryEntry{Timestamp: at, UserID: "u-1", Action: "work order closed"},
		),
	}
}

func openOrder(id, equipmentID string, typ constants.WorkOrderType, status constants.WorkOrderStatus, createdAt time.Time) entities.WorkOrder {
	return entities.WorkOrder{
		ID:          id,
		EquipmentID: equipmentID,
		Type:        typ,
		Status:      status,
		CreatedAt:   createdAt,
		History:     entities.NewHistory(entities.HistoryEntry{Timestamp: createdAt, UserID: "u-1", Action: "work order created"}),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}
