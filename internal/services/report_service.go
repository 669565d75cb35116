package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"biomed-system/internal/dto"
	"biomed-system/internal/maintenance"
	"biomed-system/internal/repositories"
	"biomed-system/pkg/constants"
	"biomed-system/pkg/metrics"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetAnnualReport(ctx context.Context, year int) (*dto.AnnualReportDTO, error)
}

type reportService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	workOrderRepo repositories.WorkOrderRepositoryInterface
	cache         repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	metrics       *metrics.Collector
	clock         Clock
	loc           *time.Location
	logger        *zap.Logger
}

func NewReportService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	collector *metrics.Collector,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		equipmentRepo: equipmentRepo,
		workOrderRepo: workOrderRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		metrics:       collector,
		clock:         clock,
		loc:           loc,
		logger:        logger,
	}
}

// GetAnnualReport returns the preventive maintenance plan of every equipment
// for year, as seen today. A cache failure never fails the request.
func (s *reportService) GetAnnualReport(ctx context.Context, year int) (*dto.AnnualReportDTO, error) {
	started := s.clock()
	today := localToday(s.clock, s.loc)
	if year <= 0 {
		year = today.Year()
	}
	key := fmt.Sprintf(constants.CacheKeyAnnualReport, year, maintenance.FormatDate(today))

	if cached, ok := s.fromCache(ctx, key); ok {
		s.metrics.ObserveReport(true, 0, len(cached.DanglingWorkOrders))
		return cached, nil
	}

	equipment, err := s.equipmentRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load equipment for report", zap.Error(err))
		return nil, err
	}
	workOrders, err := s.workOrderRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load work orders for report", zap.Error(err))
		return nil, err
	}

	report := &dto.AnnualReportDTO{
		Year:        year,
		Today:       maintenance.FormatDate(today),
		GeneratedAt: started.UTC().Format(time.RFC3339),
		Rows:        maintenance.BuildAnnualReport(equipment, workOrders, year, today),
	}
	for _, wo := range maintenance.DanglingOrders(equipment, workOrders) {
		report.DanglingWorkOrders = append(report.DanglingWorkOrders, wo.ID)
	}
	if n := len(report.DanglingWorkOrders); n > 0 {
		s.logger.Warn("work orders reference missing equipment",
			zap.Int("count", n),
			zap.Strings("workOrderIDs", report.DanglingWorkOrders),
		)
	}

	s.toCache(ctx, key, report)
	s.metrics.ObserveReport(false, s.clock().Sub(started).Seconds(), len(report.DanglingWorkOrders))
	return report, nil
}

func (s *reportService) fromCache(ctx context.Context, key string) (*dto.AnnualReportDTO, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var report dto.AnnualReportDTO
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		s.logger.Warn("discarding unreadable cached report", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &report, true
}

func (s *reportService) toCache(ctx context.Context, key string, report *dto.AnnualReportDTO) {
	if s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("failed to encode report for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
