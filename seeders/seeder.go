package seeders

import (
	"context"
	"errors"
	"fmt"

	"biomed-system/internal/dto"
	"biomed-system/internal/services"
	apperrors "biomed-system/pkg/errors"

	"go.uber.org/zap"
)

// Summary counts what one seeding run did.
type Summary struct {
	EquipmentCreated int
	EquipmentSkipped int
	WorkOrders       int
}

// Seeder fills the database with demo equipment and work orders through the services.
type Seeder struct {
	equipment  services.EquipmentServiceInterface
	workOrders services.WorkOrderServiceInterface
	logger     *zap.Logger
}

func New(equipment services.EquipmentServiceInterface, workOrders services.WorkOrderServiceInterface, logger *zap.Logger) *Seeder {
	return &Seeder{equipment: equipment, workOrders: workOrders, logger: logger}
}

// Run seeds the demo plan for year. Equipment whose serial number already
// exists is skipped together with its demo work orders.
func (s *Seeder) Run(ctx context.Context, year int) (Summary, error) {
	var summary Summary
	ids := make(map[string]string)

	for _, payload := range demoEquipment(year) {
		created, err := s.equipment.Create(ctx, payload)
		if errors.Is(err, apperrors.ErrConflict) {
			s.logger.Info("demo equipment already present", zap.String("serialNumber", payload.SerialNumber))
			summary.EquipmentSkipped++
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("seed equipment %s: %w", payload.SerialNumber, err)
		}
		ids[payload.SerialNumber] = created.ID
		summary.EquipmentCreated++
	}

	for i, demo := range demoWorkOrders(year) {
		equipmentID, ok := ids[demo.serial]
		if !ok {
			continue
		}
		order := demo.order
		order.EquipmentID = equipmentID

		if err := s.runWorkOrder(ctx, order, demo.steps); err != nil {
			return summary, fmt.Errorf("seed work order #%d for %s: %w", i+1, demo.serial, err)
		}
		summary.WorkOrders++
	}

	s.logger.Info("demo data seeded",
		zap.Int("year", year),
		zap.Int("equipmentCreated", summary.EquipmentCreated),
		zap.Int("equipmentSkipped", summary.EquipmentSkipped),
		zap.Int("workOrders", summary.WorkOrders),
	)
	return summary, nil
}

func (s *Seeder) runWorkOrder(ctx context.Context, order dto.CreateWorkOrderDTO, steps []step) error {
	result, err := s.workOrders.Create(ctx, order)
	if err != nil {
		return err
	}
	id := result.WorkOrder.ID
	for _, next := range steps {
		if err := next(ctx, s.workOrders, id); err != nil {
			return fmt.Errorf("work order %s: %w", id, err)
		}
	}
	return nil
}
