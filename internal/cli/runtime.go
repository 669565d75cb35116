package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"biomed-system/internal/repositories"
	"biomed-system/internal/services"
	"biomed-system/pkg/config"
	"biomed-system/pkg/constants"
	"biomed-system/pkg/database/postgresql"
	"biomed-system/pkg/eventbus"
	applogger "biomed-system/pkg/logger"
	"biomed-system/pkg/metrics"
)

// runtime holds what every database-backed command needs.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	pool      *pgxpool.Pool
	bus       *eventbus.Bus
	collector *metrics.Collector
	clock     services.Clock
}

func openRuntime(ctx context.Context, verbose bool) (*runtime, error) {
	cfg := config.New()
	level := "warn"
	if verbose {
		level = cfg.Log.Level
	}
	logger := applogger.NewLogger(level, cfg.Log.File)

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}
	return &runtime{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		bus:       eventbus.New(logger.Named("eventbus")),
		collector: metrics.NewCollector(),
		clock:     time.Now,
	}, nil
}

func (r *runtime) Close() {
	r.bus.Wait()
	r.pool.Close()
	_ = r.logger.Sync()
}

// pinToday makes the runtime clock report the given YYYY-MM-DD date at noon.
func (r *runtime) pinToday(date string) error {
	day, err := time.ParseInLocation(constants.DateLayout, date, r.cfg.Report.Location)
	if err != nil {
		return fmt.Errorf("--today must be a YYYY-MM-DD date: %w", err)
	}
	noon := day.Add(12 * time.Hour)
	r.clock = func() time.Time { return noon }
	return nil
}

func (r *runtime) equipmentRepo() repositories.EquipmentRepositoryInterface {
	return repositories.NewEquipmentRepository(r.pool, r.logger.Named("equipment"))
}

func (r *runtime) workOrderRepo() repositories.WorkOrderRepositoryInterface {
	return repositories.NewWorkOrderRepository(r.pool, r.logger.Named("work_order"))
}

func (r *runtime) equipmentService() services.EquipmentServiceInterface {
	return services.NewEquipmentService(r.equipmentRepo(), r.workOrderRepo(), r.bus, r.clock, r.cfg.Report.Location, r.logger.Named("equipment"))
}

func (r *runtime) workOrderService() services.WorkOrderServiceInterface {
	return services.NewWorkOrderService(
		repositories.NewTxManager(r.pool), r.workOrderRepo(), r.equipmentRepo(),
		r.bus, r.collector, r.clock, r.cfg.Report.Location, r.logger.Named("work_order"),
	)
}

// reportService caches in process memory; the CLI never shares the server's redis.
func (r *runtime) reportService() services.ReportServiceInterface {
	return services.NewReportService(
		r.equipmentRepo(), r.workOrderRepo(), repositories.NewMemoryCacheRepository(), r.cfg.Report.CacheTTL,
		r.collector, r.clock, r.cfg.Report.Location, r.logger.Named("report"),
	)
}

func (r *runtime) importer() services.EquipmentImporterInterface {
	return services.NewEquipmentImporter(repositories.NewTxManager(r.pool), r.equipmentRepo(), r.bus, r.logger.Named("import"))
}
