package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biomed-system/internal/dto"
	"biomed-system/internal/entities"
	"biomed-system/internal/events"
	"biomed-system/internal/maintenance"
	"biomed-system/internal/repositories"
	"biomed-system/pkg/constants"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/eventbus"
	"biomed-system/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const assumedCadenceWarning = "maintenance cadence could not be derived from the equipment dates; a six-month cadence was assumed"

type WorkOrderServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderResultDTO, error)
	Assign(ctx context.Context, id string, payload dto.AssignWorkOrderDTO) (*dto.WorkOrderResultDTO, error)
	UpdateProgress(ctx context.Context, id string, payload dto.UpdateProgressDTO) (*dto.WorkOrderResultDTO, error)
	Close(ctx context.Context, id string, payload dto.CloseWorkOrderDTO) (*dto.WorkOrderResultDTO, error)
	AttachCertificate(ctx context.Context, id string, payload dto.CertificateDTO) (*dto.WorkOrderResultDTO, error)
	RemoveCertificate(ctx context.Context, id string) (*dto.WorkOrderResultDTO, error)
	Find(ctx context.Context, id string) (*entities.WorkOrder, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]entities.WorkOrder, error)
}

type WorkOrderService struct {
	txManager     repositories.TxManagerInterface
	workOrderRepo repositories.WorkOrderRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	bus           *eventbus.Bus
	metrics       *metrics.Collector
	clock         Clock
	loc           *time.Location
	logger        *zap.Logger
}

func NewWorkOrderService(
	txManager repositories.TxManagerInterface,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	bus *eventbus.Bus,
	collector *metrics.Collector,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	return &WorkOrderService{
		txManager:     txManager,
		workOrderRepo: workOrderRepo,
		equipmentRepo: equipmentRepo,
		bus:           bus,
		metrics:       collector,
		clock:         clock,
		loc:           loc,
		logger:        logger,
	}
}

func (s *WorkOrderService) Find(ctx context.Context, id string) (*entities.WorkOrder, error) {
	return s.workOrderRepo.FindByID(ctx, id)
}

func (s *WorkOrderService) ListByEquipment(ctx context.Context, equipmentID string) ([]entities.WorkOrder, error) {
	if _, err := s.equipmentRepo.FindByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.workOrderRepo.ListByEquipment(ctx, equipmentID)
}

func (s *WorkOrderService) Create(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderResultDTO, error) {
	actor := actorFromContext(ctx)
	input := maintenance.CreateInput{
		ID:                  uuid.New().String(),
		EquipmentID:         payload.EquipmentID,
		Type:                payload.Type,
		DepartureReason:     payload.DepartureReason,
		Description:         payload.Description,
		ReportedBy:          actor,
		AssignedTo:          payload.AssignedTo,
		EstimatedRepairDate: payload.EstimatedRepairDate,
		PartsNeeded:         payload.PartsNeeded,
		Actor:               actor,
	}

	var (
		result    maintenance.TransitionResult
		effective maintenance.StatusDisplayed
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindByIDForUpdate(ctx, tx, payload.EquipmentID)
		if err != nil {
			return fmt.Errorf("equipment %s: %w", payload.EquipmentID, err)
		}

		result, err = maintenance.NewWorkOrder(input, s.now())
		if err != nil {
			return err
		}
		if err := s.workOrderRepo.CreateInTx(ctx, tx, result.WorkOrder); err != nil {
			return err
		}
		if err := s.workOrderRepo.AppendHistoryInTx(ctx, tx, result.WorkOrder.ID, result.WorkOrder.History.Entries()); err != nil {
			return err
		}
		if err := s.persistDelta(ctx, tx, *eq, result.EquipmentDelta); err != nil {
			return err
		}
		effective, err = s.effectiveStatusInTx(ctx, tx, result.EquipmentDelta.Apply(*eq))
		return err
	})
	s.metrics.ObserveTransition(string(maintenance.ActionCreate), err)
	if err != nil {
		s.logFailure(maintenance.ActionCreate, input.ID, err)
		return nil, err
	}

	s.logger.Info("work order created",
		zap.String("workOrderID", result.WorkOrder.ID),
		zap.String("equipmentID", result.WorkOrder.EquipmentID),
		zap.String("type", string(result.WorkOrder.Type)),
		zap.String("status", string(result.WorkOrder.Status)),
	)
	return s.finish(ctx, maintenance.ActionCreate, result, effective), nil
}

func (s *WorkOrderService) Assign(ctx context.Context, id string, payload dto.AssignWorkOrderDTO) (*dto.WorkOrderResultDTO, error) {
	return s.apply(ctx, id, maintenance.Assign{
		Actor:    actorFromContext(ctx),
		Assignee: payload.AssignedTo,
	})
}

func (s *WorkOrderService) UpdateProgress(ctx context.Context, id string, payload dto.UpdateProgressDTO) (*dto.WorkOrderResultDTO, error) {
	return s.apply(ctx, id, maintenance.UpdateProgress{
		Actor:               actorFromContext(ctx),
		Status:              payload.Status,
		EquipmentStatus:     payload.EquipmentStatus,
		PartsNeeded:         payload.PartsNeeded,
		EstimatedRepairDate: payload.EstimatedRepairDate,
		Note:                payload.Note,
	})
}

func (s *WorkOrderService) Close(ctx context.Context, id string, payload dto.CloseWorkOrderDTO) (*dto.WorkOrderResultDTO, error) {
	action := maintenance.Close{Actor: actorFromContext(ctx), Note: payload.Note}
	if payload.ClosedAt.Valid {
		closedAt, err := time.ParseInLocation(constants.DateLayout, payload.ClosedAt.String, s.now().Location())
		if err != nil {
			return nil, apperrors.NewInvalidInputError("closedAt must be a YYYY-MM-DD date")
		}
		action.ClosedAt = closedAt
	}
	return s.apply(ctx, id, action)
}

func (s *WorkOrderService) AttachCertificate(ctx context.Context, id string, payload dto.CertificateDTO) (*dto.WorkOrderResultDTO, error) {
	return s.apply(ctx, id, maintenance.AttachCertificate{Actor: actorFromContext(ctx), URL: payload.URL})
}

func (s *WorkOrderService) RemoveCertificate(ctx context.Context, id string) (*dto.WorkOrderResultDTO, error) {
	return s.apply(ctx, id, maintenance.RemoveCertificate{Actor: actorFromContext(ctx)})
}

// apply runs one engine transition and persists the work order, its new
// history entries and the equipment delta in a single transaction. Rows are
// locked equipment first, then work order, the same order Create uses.
func (s *WorkOrderService) apply(ctx context.Context, id string, action maintenance.Action) (*dto.WorkOrderResultDTO, error) {
	current, err := s.workOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		result    maintenance.TransitionResult
		effective maintenance.StatusDisplayed
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindByIDForUpdate(ctx, tx, current.EquipmentID)
		if err != nil {
			return fmt.Errorf("equipment %s: %w", current.EquipmentID, err)
		}
		wo, err := s.workOrderRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		result, err = maintenance.Transition(*wo, *eq, action, s.now())
		if err != nil {
			return err
		}
		if err := s.workOrderRepo.UpdateInTx(ctx, tx, result.WorkOrder); err != nil {
			return err
		}
		added := result.WorkOrder.History.Since(wo.History.Len())
		if err := s.workOrderRepo.AppendHistoryInTx(ctx, tx, wo.ID, added); err != nil {
			return err
		}
		if err := s.persistDelta(ctx, tx, *eq, result.EquipmentDelta); err != nil {
			return err
		}
		effective, err = s.effectiveStatusInTx(ctx, tx, result.EquipmentDelta.Apply(*eq))
		return err
	})
	s.metrics.ObserveTransition(string(action.Kind()), err)
	if err != nil {
		s.logFailure(action.Kind(), id, err)
		return nil, err
	}

	s.logger.Info("work order updated",
		zap.String("workOrderID", id),
		zap.String("action", string(action.Kind())),
		zap.String("status", string(result.WorkOrder.Status)),
	)
	return s.finish(ctx, action.Kind(), result, effective), nil
}

// now is the clock reading in the configured zone, so a closure without an
// explicit date rolls over on the calendar day operators see.
func (s *WorkOrderService) now() time.Time {
	return localToday(s.clock, s.loc)
}

// effectiveStatusInTx resolves what users see for eq from the open orders
// visible inside tx, including the one just written.
func (s *WorkOrderService) effectiveStatusInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) (maintenance.StatusDisplayed, error) {
	open, err := s.workOrderRepo.ListOpenByEquipmentInTx(ctx, tx, eq.ID)
	if err != nil {
		return maintenance.StatusDisplayed{}, err
	}
	status := maintenance.ResolveEffectiveStatus(eq, open)
	return maintenance.StatusDisplayed{Status: status, StatusDisplay: maintenance.DisplayFor(status)}, nil
}

func (s *WorkOrderService) persistDelta(ctx context.Context, tx pgx.Tx, eq entities.Equipment, delta *maintenance.EquipmentDelta) error {
	if delta.IsEmpty() {
		return nil
	}
	return s.equipmentRepo.UpdateInTx(ctx, tx, delta.Apply(eq))
}

// finish runs after commit: warnings, metrics and the change event. The event
// is delivered before returning, so no cached report outlives the change.
func (s *WorkOrderService) finish(ctx context.Context, kind maintenance.ActionKind, result maintenance.TransitionResult, effective maintenance.StatusDisplayed) *dto.WorkOrderResultDTO {
	out := &dto.WorkOrderResultDTO{
		WorkOrder:       result.WorkOrder,
		EquipmentDelta:  result.EquipmentDelta,
		EquipmentStatus: effective,
	}
	if d := result.EquipmentDelta; d != nil && d.AssumedCadence {
		s.metrics.ObserveAssumedCadence()
		s.logger.Warn("assumed maintenance cadence on rollover",
			zap.String("workOrderID", result.WorkOrder.ID),
			zap.String("equipmentID", d.EquipmentID),
			zap.String("nextMaintenanceDate", d.NextMaintenanceDate.String),
		)
		out.Warnings = append(out.Warnings, assumedCadenceWarning)
	}
	s.bus.PublishSync(ctx, events.WorkOrderChangedEvent{
		WorkOrderID: result.WorkOrder.ID,
		EquipmentID: result.WorkOrder.EquipmentID,
		Action:      string(kind),
	})
	return out
}

func (s *WorkOrderService) logFailure(kind maintenance.ActionKind, id string, err error) {
	fields := []zap.Field{
		zap.String("workOrderID", id),
		zap.String("action", string(kind)),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, maintenance.ErrInvalidTransition):
		s.logger.Warn("work order action rejected", fields...)
	case errors.Is(err, apperrors.ErrNotFound):
		s.logger.Debug("work order action on missing record", fields...)
	default:
		s.logger.Error("work order action failed", fields...)
	}
}
