package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"biomed-system/internal/dto"
	"biomed-system/internal/entities"
	"biomed-system/internal/events"
	"biomed-system/internal/maintenance"
	"biomed-system/internal/repositories"
	"biomed-system/pkg/constants"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/eventbus"
	"biomed-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	Find(ctx context.Context, id string, year int) (*dto.EquipmentDetailDTO, error)
	Schedule(ctx context.Context, id string, year int) (*dto.EquipmentScheduleDTO, error)
	Create(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	Update(ctx context.Context, id string, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	workOrderRepo repositories.WorkOrderRepositoryInterface
	bus           *eventbus.Bus
	clock         Clock
	loc           *time.Location
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	bus *eventbus.Bus,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		workOrderRepo: workOrderRepo,
		bus:           bus,
		clock:         clock,
		loc:           loc,
		logger:        logger,
	}
}

func toEquipmentDTO(eq entities.Equipment, openOrders []entities.WorkOrder) dto.EquipmentDTO {
	effective := maintenance.ResolveEffectiveStatus(eq, openOrders)
	out := dto.EquipmentDTO{
		Equipment: eq,
		EffectiveStatus: maintenance.StatusDisplayed{
			Status:        effective,
			StatusDisplay: maintenance.DisplayFor(effective),
		},
	}
	for _, wo := range openOrders {
		if wo.EquipmentID == eq.ID && !wo.IsClosed() {
			out.OpenWorkOrderCount++
		}
	}
	if primary, ok := maintenance.PrimaryWorkOrder(eq, openOrders); ok {
		out.PrimaryWorkOrderID = null.StringFrom(primary.ID)
	}
	if cadence, ok := maintenance.CadenceOf(eq); ok {
		out.MaintenanceCadence = cadence.String()
	}
	return out
}

func (s *EquipmentService) List(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	list, total, err := s.equipmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list equipment", zap.Error(err))
		return nil, 0, err
	}
	open, err := s.workOrderRepo.ListOpen(ctx)
	if err != nil {
		s.logger.Error("failed to load open work orders", zap.Error(err))
		return nil, 0, err
	}

	byEquipment := make(map[string][]entities.WorkOrder)
	for _, wo := range open {
		byEquipment[wo.EquipmentID] = append(byEquipment[wo.EquipmentID], wo)
	}
	out := make([]dto.EquipmentDTO, 0, len(list))
	for _, eq := range list {
		out = append(out, toEquipmentDTO(eq, byEquipment[eq.ID]))
	}
	return out, total, nil
}

func (s *EquipmentService) Find(ctx context.Context, id string, year int) (*dto.EquipmentDetailDTO, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.workOrderRepo.ListByEquipment(ctx, id)
	if err != nil {
		s.logger.Error("failed to load work orders", zap.String("equipmentID", id), zap.Error(err))
		return nil, err
	}

	return &dto.EquipmentDetailDTO{
		EquipmentDTO: toEquipmentDTO(*eq, orders),
		Schedule:     s.schedule(*eq, orders, year),
	}, nil
}

func (s *EquipmentService) Schedule(ctx context.Context, id string, year int) (*dto.EquipmentScheduleDTO, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.workOrderRepo.ListByEquipment(ctx, id)
	if err != nil {
		s.logger.Error("failed to load work orders", zap.String("equipmentID", id), zap.Error(err))
		return nil, err
	}
	schedule := s.schedule(*eq, orders, year)
	return &schedule, nil
}

func (s *EquipmentService) schedule(eq entities.Equipment, orders []entities.WorkOrder, year int) dto.EquipmentScheduleDTO {
	today := localToday(s.clock, s.loc)
	if year <= 0 {
		year = today.Year()
	}

	visits := maintenance.ComputeSchedule(eq, year)
	closed := maintenance.ClosedPreventiveForYear(orders, eq.ID, year, today.Location())
	results := maintenance.ClassifySchedule(visits, closed, today)

	out := dto.EquipmentScheduleDTO{
		EquipmentID: eq.ID,
		Year:        year,
		Visits:      results,
		Aggregate:   maintenance.AggregateVisits(results),
	}
	for i, label := range maintenance.MonthSlots(visits) {
		if label != "" {
			out.Months[i] = null.StringFrom(label)
		}
	}
	return out
}

func (s *EquipmentService) Create(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if _, ok := maintenance.ParseDate(payload.NextMaintenanceDate); !ok {
		return nil, apperrors.NewInvalidInputError("nextMaintenanceDate must be a YYYY-MM-DD date")
	}

	status := payload.Status
	if status == "" {
		status = constants.EquipmentOperational
	}
	eq := entities.Equipment{
		ID:                  uuid.New().String(),
		Name:                strings.TrimSpace(payload.Name),
		Brand:               strings.TrimSpace(payload.Brand),
		Model:               strings.TrimSpace(payload.Model),
		SerialNumber:        strings.TrimSpace(payload.SerialNumber),
		Location:            strings.TrimSpace(payload.Location),
		InventoryNumber:     strings.TrimSpace(payload.InventoryNumber),
		Status:              status,
		LastMaintenanceDate: payload.LastMaintenanceDate,
		NextMaintenanceDate: payload.NextMaintenanceDate,
		LastCalibrationDate: payload.LastCalibrationDate,
		NextCalibrationDate: payload.NextCalibrationDate,
	}

	if err := s.equipmentRepo.Create(ctx, eq); err != nil {
		s.logger.Error("failed to create equipment", zap.String("serialNumber", eq.SerialNumber), zap.Error(err))
		return nil, err
	}
	s.logger.Info("equipment created", zap.String("equipmentID", eq.ID), zap.String("serialNumber", eq.SerialNumber))
	s.bus.PublishSync(ctx, events.EquipmentChangedEvent{EquipmentID: eq.ID, Reason: "create"})

	out := toEquipmentDTO(eq, nil)
	return &out, nil
}

// Update is the administrative edit. It is also how an Out-of-Service
// equipment is put back in operation. Maintenance dates are not editable.
func (s *EquipmentService) Update(ctx context.Context, id string, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := eq.Status
	applyEquipmentPatch(eq, payload)

	if err := s.equipmentRepo.UpdateDetails(ctx, *eq); err != nil {
		s.logger.Error("failed to update equipment", zap.String("equipmentID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update equipment %s: %w", id, err)
	}
	if before != eq.Status {
		s.logger.Info("equipment status changed by administrator",
			zap.String("equipmentID", id),
			zap.String("from", string(before)),
			zap.String("to", string(eq.Status)),
		)
	}
	s.bus.PublishSync(ctx, events.EquipmentChangedEvent{EquipmentID: id, Reason: "update"})

	stored, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	open, err := s.workOrderRepo.ListByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toEquipmentDTO(*stored, open)
	return &out, nil
}

func applyEquipmentPatch(eq *entities.Equipment, p dto.UpdateEquipmentDTO) {
	if p.Name != nil {
		eq.Name = strings.TrimSpace(*p.Name)
	}
	if p.Brand != nil {
		eq.Brand = strings.TrimSpace(*p.Brand)
	}
	if p.Model != nil {
		eq.Model = strings.TrimSpace(*p.Model)
	}
	if p.SerialNumber != nil {
		eq.SerialNumber = strings.TrimSpace(*p.SerialNumber)
	}
	if p.Location != nil {
		eq.Location = strings.TrimSpace(*p.Location)
	}
	if p.InventoryNumber != nil {
		eq.InventoryNumber = strings.TrimSpace(*p.InventoryNumber)
	}
	if p.Status != nil {
		eq.Status = *p.Status
	}
	if p.LastCalibrationDate.Valid {
		eq.LastCalibrationDate = p.LastCalibrationDate
	}
	if p.NextCalibrationDate.Valid {
		eq.NextCalibrationDate = p.NextCalibrationDate
	}
}
