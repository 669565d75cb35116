package routes

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"biomed-system/internal/controllers"
	"biomed-system/internal/listeners"
	"biomed-system/internal/repositories"
	"biomed-system/internal/services"
	"biomed-system/pkg/config"
	"biomed-system/pkg/eventbus"
	"biomed-system/pkg/metrics"
	"biomed-system/pkg/middleware"
	"biomed-system/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Equipment *zap.Logger
	WorkOrder *zap.Logger
	Report    *zap.Logger
}

// SingleLogger names one logger per area from a shared root.
func SingleLogger(root *zap.Logger) *Loggers {
	return &Loggers{
		Main:      root,
		Auth:      root.Named("auth"),
		Equipment: root.Named("equipment"),
		WorkOrder: root.Named("work_order"),
		Report:    root.Named("report"),
	}
}

// Controllers is everything the HTTP surface dispatches to.
type Controllers struct {
	Equipment *controllers.EquipmentController
	WorkOrder *controllers.WorkOrderController
	Report    *controllers.ReportController
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	cache repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	collector *metrics.Collector,
	jwtSvc service.JWTService,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: building routes")

	// --- repositories ---
	txManager := repositories.NewTxManager(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Equipment)
	workOrderRepo := repositories.NewWorkOrderRepository(dbConn, loggers.WorkOrder)

	// --- listeners ---
	listeners.NewReportCacheListener(cache, loggers.Report).Register(bus)

	// --- services ---
	clock := time.Now
	loc := cfg.Report.Location
	equipmentService := services.NewEquipmentService(equipmentRepo, workOrderRepo, bus, clock, loc, loggers.Equipment)
	importer := services.NewEquipmentImporter(txManager, equipmentRepo, bus, loggers.Equipment)
	workOrderService := services.NewWorkOrderService(
		txManager, workOrderRepo, equipmentRepo, bus, collector, clock, loc, loggers.WorkOrder,
	)
	reportService := services.NewReportService(
		equipmentRepo, workOrderRepo, cache, cfg.Report.CacheTTL, collector, clock, loc, loggers.Report,
	)

	// --- controllers ---
	ctrls := Controllers{
		Equipment: controllers.NewEquipmentController(equipmentService, importer, workOrderService, loggers.Equipment),
		WorkOrder: controllers.NewWorkOrderController(workOrderService, loggers.WorkOrder),
		Report:    controllers.NewReportController(reportService, loggers.Report),
	}

	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	Register(e, ctrls, authMW, collector)

	loggers.Main.Info("InitRouter: routes ready", zap.Int("count", len(e.Routes())))
}

// Register mounts the API behind authMW and the unauthenticated metrics endpoint.
func Register(e *echo.Echo, ctrls Controllers, authMW *middleware.AuthMiddleware, collector *metrics.Collector) {
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	api := e.Group("/api")
	secureGroup := api.Group("", authMW.Auth)

	runEquipmentRouter(secureGroup, ctrls.Equipment)
	runWorkOrderRouter(secureGroup, ctrls.WorkOrder)
	runReportRouter(secureGroup, ctrls.Report)
}
