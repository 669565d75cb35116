package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"biomed-system/internal/dto"
	"biomed-system/internal/entities"
	"biomed-system/internal/maintenance"
	"biomed-system/pkg/constants"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/eventbus"
	"biomed-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEquipmentService(eqRepo *fakeEquipmentRepo, woRepo *fakeWorkOrderRepo) EquipmentServiceInterface {
	return NewEquipmentService(eqRepo, woRepo, eventbus.New(zap.NewNop()), fixedClock(serviceNow), time.UTC, zap.NewNop())
}

func TestEquipmentService_ListResolvesEffectiveStatus(t *testing.T) {
	loaned := operationalEquipment("eq-2")
	loaned.Status = constants.EquipmentLoan
	eqRepo := newFakeEquipmentRepo(operationalEquipment("eq-1"), loaned, operationalEquipment("eq-3"))
	woRepo := newFakeWorkOrderRepo()
	woRepo.seed(entities.WorkOrder{
		ID: "wo-1", EquipmentID: "eq-1", Type: constants.TypeCorrective, Status: constants.StatusOpen,
		CreatedAt: serviceNow.Add(-time.Hour),
	})
	woRepo.seed(entities.WorkOrder{
		ID: "wo-2", EquipmentID: "eq-2", Type: constants.TypeDeparture, Status: constants.StatusOnLoan,
		DepartureReason: null.StringFrom("loan"), CreatedAt: serviceNow.Add(-2 * time.Hour),
	})

	list, total, err := newEquipmentService(eqRepo, woRepo).List(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, list, 3)

	assert.Equal(t, constants.EquipmentFailureReported, list[0].EffectiveStatus.Status)
	assert.Equal(t, "Falla reportada", list[0].EffectiveStatus.Label)
	assert.Equal(t, "wo-1", list[0].PrimaryWorkOrderID.String)
	assert.Equal(t, 1, list[0].OpenWorkOrderCount)

	assert.Equal(t, constants.EquipmentLoan, list[1].EffectiveStatus.Status)
	assert.Equal(t, constants.EquipmentOperational, list[2].EffectiveStatus.Status)
	assert.False(t, list[2].PrimaryWorkOrderID.Valid)
	assert.Equal(t, "semi-annual", list[2].MaintenanceCadence)
}

func TestEquipmentService_FindWithSchedule(t *testing.T) {
	eqRepo := newFakeEquipmentRepo(operationalEquipment("eq-1"))
	woRepo := newFakeWorkOrderRepo()
	closedAt := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	woRepo.seed(entities.WorkOrder{
		ID: "wo-1", EquipmentID: "eq-1", Type: constants.TypePreventive, Status: constants.StatusClosed,
		CreatedAt: closedAt.Add(-time.Hour),
		History: entities.NewHistory(
			entities.HistoryEntry{Timestamp: closedAt.Add(-time.Hour), UserID: "u", Action: "work order created"},
			entities.HistoryEntry{Timestamp: closedAt, UserID: "u", Action: "work order closed"},
		),
	})

	detail, err := newEquipmentService(eqRepo, woRepo).Find(context.Background(), "eq-1", 2025)
	require.NoError(t, err)

	sched := detail.Schedule
	assert.Equal(t, 2025, sched.Year)
	require.Len(t, sched.Visits, 2)
	assert.Equal(t, maintenance.VisitDone, sched.Visits[0].Status)
	assert.Equal(t, "wo-1", sched.Visits[0].WorkOrderID)
	assert.Equal(t, maintenance.VisitUpcoming, sched.Visits[1].Status)
	assert.Equal(t, maintenance.AggregateOnTime, sched.Aggregate.Code)
	assert.Equal(t, "MP1", sched.Months[0].String)
	assert.Equal(t, "MP2", sched.Months[6].String)
	assert.False(t, sched.Months[3].Valid)

	_, err = newEquipmentService(eqRepo, woRepo).Find(context.Background(), "missing", 2025)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentService_ScheduleDefaultsToCurrentYear(t *testing.T) {
	eqRepo := newFakeEquipmentRepo(operationalEquipment("eq-1"))
	sched, err := newEquipmentService(eqRepo, newFakeWorkOrderRepo()).Schedule(context.Background(), "eq-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, sched.Year)
}

func TestEquipmentService_Create(t *testing.T) {
	eqRepo := newFakeEquipmentRepo()
	svc := newEquipmentService(eqRepo, newFakeWorkOrderRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateEquipmentDTO{
		Name:                " Bomba de infusión ",
		SerialNumber:        "BI-1",
		Location:            "Pediatría - Sala 2",
		NextMaintenanceDate: "2025-09-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Bomba de infusión", created.Name)
	assert.Equal(t, constants.EquipmentOperational, created.Status)
	assert.Equal(t, constants.EquipmentOperational, created.EffectiveStatus.Status)
	assert.Empty(t, created.MaintenanceCadence)

	_, err = svc.Create(ctx, dto.CreateEquipmentDTO{Name: "Otra", SerialNumber: "BI-1", NextMaintenanceDate: "2025-09-01"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(ctx, dto.CreateEquipmentDTO{Name: "Sin fecha", SerialNumber: "BI-2", NextMaintenanceDate: "pronto"})
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestEquipmentService_UpdateReactivates(t *testing.T) {
	broken := operationalEquipment("eq-1")
	broken.Status = constants.EquipmentOutOfService
	eqRepo := newFakeEquipmentRepo(broken)
	svc := newEquipmentService(eqRepo, newFakeWorkOrderRepo())

	operational := constants.EquipmentOperational
	location := "Quirófano - Sala 1"
	updated, err := svc.Update(context.Background(), "eq-1", dto.UpdateEquipmentDTO{
		Status:   &operational,
		Location: &location,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.EquipmentOperational, updated.EffectiveStatus.Status)

	stored := eqRepo.get("eq-1")
	assert.Equal(t, constants.EquipmentOperational, stored.Status)
	assert.Equal(t, "Quirófano - Sala 1", stored.Location)
	assert.Equal(t, "2024-07-10", stored.NextMaintenanceDate)
	assert.Equal(t, "2024-01-10", stored.LastMaintenanceDate.String)

	_, err = svc.Update(context.Background(), "missing", dto.UpdateEquipmentDTO{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// rolloverOnReadRepo commits a preventive rollover right after the first
// read, the way a concurrent close would land between read and write.
type rolloverOnReadRepo struct {
	*fakeEquipmentRepo
	once sync.Once
}

func (r *rolloverOnReadRepo) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	eq, err := r.fakeEquipmentRepo.FindByID(ctx, id)
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		rolled := r.items[id]
		rolled.LastMaintenanceDate = null.StringFrom("2025-07-15")
		rolled.NextMaintenanceDate = "2026-01-15"
		r.items[id] = rolled
	})
	return eq, err
}

func TestEquipmentService_UpdateKeepsConcurrentRollover(t *testing.T) {
	eqRepo := &rolloverOnReadRepo{fakeEquipmentRepo: newFakeEquipmentRepo(operationalEquipment("eq-1"))}
	svc := NewEquipmentService(eqRepo, newFakeWorkOrderRepo(), eventbus.New(zap.NewNop()), fixedClock(serviceNow), time.UTC, zap.NewNop())

	location := "UCI - Box 4"
	updated, err := svc.Update(context.Background(), "eq-1", dto.UpdateEquipmentDTO{Location: &location})
	require.NoError(t, err)

	stored := eqRepo.get("eq-1")
	assert.Equal(t, "UCI - Box 4", stored.Location)
	assert.Equal(t, "2025-07-15", stored.LastMaintenanceDate.String)
	assert.Equal(t, "2026-01-15", stored.NextMaintenanceDate)
	assert.Equal(t, "2026-01-15", updated.NextMaintenanceDate)
}
