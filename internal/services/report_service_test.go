package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"biomed-system/internal/entities"
	"biomed-system/internal/maintenance"
	"biomed-system/internal/repositories"
	"biomed-system/pkg/constants"
	"biomed-system/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingEquipmentRepo struct {
	*fakeEquipmentRepo
	listAllCalls int
}

func (r *countingEquipmentRepo) ListAll(ctx context.Context) ([]entities.Equipment, error) {
	r.listAllCalls++
	return r.fakeEquipmentRepo.ListAll(ctx)
}

type brokenCache struct{}

func (brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCache) Get(context.Context, string) (string, error) { return "", errors.New("redis down") }
func (brokenCache) Del(context.Context, ...string) error        { return errors.New("redis down") }
func (brokenCache) DelByPrefix(context.Context, string) (int, error) {
	return 0, errors.New("redis down")
}

func reportFixtures() (*countingEquipmentRepo, *fakeWorkOrderRepo) {
	uci := operationalEquipment("eq-1")
	uci.InventoryNumber = "INV-10"
	ped := operationalEquipment("eq-2")
	ped.Location = "Pediatría - Cuna 4"
	ped.InventoryNumber = "INV-2"

	eqRepo := &countingEquipmentRepo{fakeEquipmentRepo: newFakeEquipmentRepo(uci, ped)}
	woRepo := newFakeWorkOrderRepo()
	woRepo.seed(entities.WorkOrder{
		ID: "wo-orphan", EquipmentID: "deleted", Type: constants.TypeCorrective, Status: constants.StatusOpen,
		CreatedAt: serviceNow.Add(-time.Hour),
	})
	return eqRepo, woRepo
}

func TestReportService_BuildsAndCaches(t *testing.T) {
	eqRepo, woRepo := reportFixtures()
	cache := repositories.NewMemoryCacheRepository()
	svc := NewReportService(eqRepo, woRepo, cache, time.Minute, metrics.NewCollector(), fixedClock(serviceNow), time.UTC, zap.NewNop())
	ctx := context.Background()

	report, err := svc.GetAnnualReport(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, "2025-07-15", report.Today)
	assert.Equal(t, []string{"wo-orphan"}, report.DanglingWorkOrders)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "eq-2", report.Rows[0].Equipment.ID, "Pediatría sorts before UCI")
	assert.Equal(t, maintenance.AggregateOverdue, report.Rows[1].Aggregate.Code)

	cached, err := cache.Get(ctx, "annual_report:2025:2025-07-15")
	require.NoError(t, err)
	assert.Contains(t, cached, `"danglingWorkOrders":["wo-orphan"]`)

	again, err := svc.GetAnnualReport(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, eqRepo.listAllCalls)
	require.Len(t, again.Rows, 2)
	assert.Equal(t, report.Rows[0].Months, again.Rows[0].Months)
	assert.Equal(t, report.Rows[1].Aggregate, again.Rows[1].Aggregate)
}

func TestReportService_DefaultsYearAndSurvivesCacheFailure(t *testing.T) {
	eqRepo, woRepo := reportFixtures()
	svc := NewReportService(eqRepo, woRepo, brokenCache{}, time.Minute, metrics.NewCollector(), fixedClock(serviceNow), time.UTC, zap.NewNop())

	report, err := svc.GetAnnualReport(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	assert.Len(t, report.Rows, 2)

	_, err = svc.GetAnnualReport(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, eqRepo.listAllCalls)
}
