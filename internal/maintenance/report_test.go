package maintenance

import (
	"testing"
	"time"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnnualReport(t *testing.T) {
	today := day(2025, time.June, 15)

	monitor := equipmentWithDates("EQ-1", "2024-03-01", "2024-09-01")
	monitor.Location = "UCI - Cama 1"
	monitor.InventoryNumber = "INV-10"

	pump := equipmentWithDates("EQ-2", "2024-03-01", "2025-03-01")
	pump.Location = "UCI - Cama 2"
	pump.InventoryNumber = "INV-2"

	scale := equipmentWithDates("EQ-3", "", "")
	scale.Location = "Pediatría"

	orders := []entities.WorkOrder{
		closedPreventive("WO-1", "EQ-1", day(2025, time.March, 20)),
		openOrder("WO-2", "EQ-2", constants.TypeCorrective, constants.StatusReported, day(2025, time.June, 1)),
		openOrder("WO-ghost", "EQ-404", constants.TypeCorrective, constants.StatusOpen, day(2025, time.June, 1)),
	}

	rows := BuildAnnualReport([]entities.Equipment{monitor, pump, scale}, orders, 2025, today)
	require.Len(t, rows, 3)

	assert.Equal(t, "EQ-3", rows[0].Equipment.ID)
	assert.Equal(t, "EQ-2", rows[1].Equipment.ID)
	assert.Equal(t, "EQ-1", rows[2].Equipment.ID)

	scaleRow := rows[0]
	assert.Equal(t, "Pediatría", scaleRow.Area)
	assert.Equal(t, "EQ-3", scaleRow.InventoryNumber)
	assert.Empty(t, scaleRow.Schedule)
	assert.Equal(t, AggregateNotApplicable, scaleRow.Aggregate.Code)
	assert.NotNil(t, scaleRow.ClosedOrders)

	pumpRow := rows[1]
	assert.Equal(t, null.StringFrom("MP1"), pumpRow.Months[2])
	assert.Equal(t, AggregateOverdue, pumpRow.Aggregate.Code)
	assert.Equal(t, "Vencido", pumpRow.Aggregate.Label)
	assert.Equal(t, constants.EquipmentFailureReported, pumpRow.EffectiveStatus.Status)
	assert.Equal(t, "Falla reportada", pumpRow.EffectiveStatus.Label)

	monitorRow := rows[2]
	assert.Equal(t, "UCI", monitorRow.Area)
	assert.Equal(t, null.StringFrom("MP1"), monitorRow.Months[2])
	assert.Equal(t, null.StringFrom("MP2"), monitorRow.Months[8])
	assert.False(t, monitorRow.Months[0].Valid)
	require.Len(t, monitorRow.Visits, 2)
	assert.Equal(t, VisitDone, monitorRow.Visits[0].Status)
	assert.Equal(t, "WO-1", monitorRow.Visits[0].WorkOrderID)
	assert.Equal(t, VisitUpcoming, monitorRow.Visits[1].Status)
	assert.Equal(t, AggregateOnTime, monitorRow.Aggregate.Code)
	assert.Equal(t, constants.EquipmentOperational, monitorRow.EffectiveStatus.Status)
}

func TestBuildAnnualReport_EmptyInputs(t *testing.T) {
	rows := BuildAnnualReport(nil, nil, 2025, day(2025, time.June, 15))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDanglingOrders(t *testing.T) {
	equipment := []entities.Equipment{{ID: "EQ-1"}}
	orders := []entities.WorkOrder{
		openOrder("WO-1", "EQ-1", constants.TypeCorrective, constants.StatusOpen, day(2025, time.June, 1)),
		openOrder("WO-2", "EQ-9", constants.TypeCorrective, constants.StatusOpen, day(2025, time.June, 1)),
	}
	got := DanglingOrders(equipment, orders)
	require.Len(t, got, 1)
	assert.Equal(t, "WO-2", got[0].ID)
}

func TestNaturalCompare(t *testing.T) {
	assert.Equal(t, -1, naturalCompare("INV-2", "INV-10"))
	assert.Equal(t, 1, naturalCompare("inv-b", "INV-A"))
	assert.Equal(t, 0, naturalCompare("INV-7", "inv-7"))
	assert.Equal(t, -1, naturalCompare("INV", "INV-1"))
}

func TestAreaOf(t *testing.T) {
	assert.Equal(t, "Quirófano", AreaOf("Quirófano - Sala 2"))
	assert.Equal(t, "Laboratorio", AreaOf(" Laboratorio "))
	assert.Equal(t, "", AreaOf(""))
}
