package maintenance

import (
	"testing"
	"time"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEffectiveStatus(t *testing.T) {
	created := day(2025, time.May, 1)
	corrective := openOrder("WO-1", "EQ-1", constants.TypeCorrective, constants.StatusOpen, created)
	closedCorrective := corrective
	closedCorrective.Status = constants.StatusClosed
	reportedPreventive := openOrder("WO-2", "EQ-1", constants.TypePreventive, constants.StatusReported, created)
	workingPreventive := openOrder("WO-3", "EQ-1", constants.TypePreventive, constants.StatusInProgress, created)
	loan := openOrder("WO-4", "EQ-1", constants.TypeDeparture, constants.StatusOnLoan, created)
	foreign := openOrder("WO-5", "EQ-2", constants.TypeCorrective, constants.StatusReported, created)

	tests := []struct {
		name   string
		stored constants.EquipmentStatus
		orders []entities.WorkOrder
		want   constants.EquipmentStatus
	}{
		{name: "open corrective reports a failure", stored: constants.EquipmentOperational, orders: []entities.WorkOrder{corrective}, want: constants.EquipmentFailureReported},
		{name: "closed corrective is operational", stored: constants.EquipmentOperational, orders: []entities.WorkOrder{closedCorrective}, want: constants.EquipmentOperational},
		{name: "any reported order is a failure", stored: constants.EquipmentOperational, orders: []entities.WorkOrder{reportedPreventive}, want: constants.EquipmentFailureReported},
		{name: "working preventive stays operational", stored: constants.EquipmentOperational, orders: []entities.WorkOrder{workingPreventive}, want: constants.EquipmentOperational},
		{name: "in maintenance collapses to operational", stored: constants.EquipmentInMaintenance, orders: []entities.WorkOrder{workingPreventive}, want: constants.EquipmentOperational},
		{name: "loan with open departure shows loan", stored: constants.EquipmentLoan, orders: []entities.WorkOrder{loan}, want: constants.EquipmentLoan},
		{name: "loan without open orders is operational", stored: constants.EquipmentLoan, want: constants.EquipmentOperational},
		{name: "failure beats a special state", stored: constants.EquipmentLoan, orders: []entities.WorkOrder{loan, corrective}, want: constants.EquipmentFailureReported},
		{name: "out of service without orders", stored: constants.EquipmentOutOfService, want: constants.EquipmentOutOfService},
		{name: "out of service with working order", stored: constants.EquipmentOutOfService, orders: []entities.WorkOrder{workingPreventive}, want: constants.EquipmentOutOfService},
		{name: "orders of other equipment are ignored", stored: constants.EquipmentOperational, orders: []entities.WorkOrder{foreign}, want: constants.EquipmentOperational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq := entities.Equipment{ID: "EQ-1", Status: tt.stored}
			assert.Equal(t, tt.want, ResolveEffectiveStatus(eq, tt.orders))
		})
	}
}

func TestResolveEffectiveStatus_IsIdempotent(t *testing.T) {
	eq := entities.Equipment{ID: "EQ-1", Status: constants.EquipmentLoan}
	orders := []entities.WorkOrder{
		openOrder("WO-2", "EQ-1", constants.TypeDeparture, constants.StatusOnLoan, day(2025, time.May, 2)),
		openOrder("WO-1", "EQ-1", constants.TypeCorrective, constants.StatusReported, day(2025, time.May, 1)),
	}
	snapshot := append([]entities.WorkOrder(nil), orders...)

	first := ResolveEffectiveStatus(eq, orders)
	second := ResolveEffectiveStatus(eq, orders)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, orders)
	assert.Equal(t, constants.EquipmentLoan, eq.Status)
}

func TestPrimaryWorkOrder(t *testing.T) {
	eq := entities.Equipment{ID: "EQ-1", Status: constants.EquipmentOperational}

	_, ok := PrimaryWorkOrder(eq, nil)
	assert.False(t, ok)

	older := openOrder("WO-B", "EQ-1", constants.TypePreventive, constants.StatusOpen, day(2025, time.January, 1))
	failure := openOrder("WO-C", "EQ-1", constants.TypeCorrective, constants.StatusOpen, day(2025, time.March, 1))
	got, ok := PrimaryWorkOrder(eq, []entities.WorkOrder{older, failure})
	require.True(t, ok)
	assert.Equal(t, "WO-C", got.ID)

	twin := openOrder("WO-A", "EQ-1", constants.TypePreventive, constants.StatusOpen, day(2025, time.January, 1))
	got, ok = PrimaryWorkOrder(eq, []entities.WorkOrder{older, twin})
	require.True(t, ok)
	assert.Equal(t, "WO-A", got.ID)
}

func TestDisplayFor(t *testing.T) {
	assert.Equal(t, "Falla reportada", DisplayFor(constants.EquipmentFailureReported).Label)
	assert.Equal(t, "success", DisplayFor(constants.EquipmentOperational).Badge)
	assert.Equal(t, StatusDisplay{Label: "UNKNOWN", Badge: "secondary"}, DisplayFor("UNKNOWN"))
}
