package repositories

import (
	"context"
	"errors"
	"fmt"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"
	apperrors "biomed-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	workOrderTable        = "work_orders"
	workOrderHistoryTable = "work_order_history"
)

var workOrderFields = []string{
	"id", "equipment_id", "type", "status", "departure_reason", "description",
	dateColumn("estimated_repair_date"),
	"parts_needed", "assigned_to", "reported_by", "calibration_certificate_url",
	"created_at", "updated_at",
}

type WorkOrderRepositoryInterface interface {
	ListAll(ctx context.Context) ([]entities.WorkOrder, error)
	ListOpen(ctx context.Context) ([]entities.WorkOrder, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]entities.WorkOrder, error)
	ListOpenByEquipmentInTx(ctx context.Context, tx pgx.Tx, equipmentID string) ([]entities.WorkOrder, error)
	FindByID(ctx context.Context, id string) (*entities.WorkOrder, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.WorkOrder, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error
	AppendHistoryInTx(ctx context.Context, tx pgx.Tx, workOrderID string, entries []entities.HistoryEntry) error
}

type workOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &workOrderRepository{storage: storage, logger: logger}
}

func (r *workOrderRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanWorkOrder(row pgx.Row) (*entities.WorkOrder, error) {
	var wo entities.WorkOrder
	err := row.Scan(
		&wo.ID, &wo.EquipmentID, &wo.Type, &wo.Status, &wo.DepartureReason, &wo.Description,
		&wo.EstimatedRepairDate, &wo.PartsNeeded, &wo.AssignedTo, &wo.ReportedBy, &wo.CalibrationCertificateURL,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("work order scan failed: %w", err)
	}
	return &wo, nil
}

func (r *workOrderRepository) queryList(ctx context.Context, q Querier, builder sq.SelectBuilder) ([]entities.WorkOrder, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build work order query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}
	list := make([]entities.WorkOrder, 0)
	func() {
		defer rows.Close()
		for rows.Next() {
			var wo *entities.WorkOrder
			wo, err = scanWorkOrder(rows)
			if err != nil {
				return
			}
			list = append(list, *wo)
		}
		err = rows.Err()
	}()
	if err != nil {
		return nil, err
	}
	if err := r.attachHistory(ctx, q, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachHistory loads the trails of all orders in one query, keeping insertion order.
func (r *workOrderRepository) attachHistory(ctx context.Context, q Querier, orders []entities.WorkOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, wo := range orders {
		ids[i] = wo.ID
		index[wo.ID] = i
	}

	query, args, err := psql.Select("work_order_id", `"timestamp"`, "user_id", "action").
		From(workOrderHistoryTable).
		Where(sq.Eq{"work_order_id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build history query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load work order history: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]entities.HistoryEntry, len(orders))
	for rows.Next() {
		var (
			woID string
			e    entities.HistoryEntry
		)
		if err := rows.Scan(&woID, &e.Timestamp, &e.UserID, &e.Action); err != nil {
			return fmt.Errorf("history scan failed: %w", err)
		}
		grouped[woID] = append(grouped[woID], e)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for id, entries := range grouped {
		orders[index[id]].History = entities.NewHistory(entries...)
	}
	return nil
}

func (r *workOrderRepository) ListAll(ctx context.Context) ([]entities.WorkOrder, error) {
	builder := psql.Select(workOrderFields...).From(workOrderTable).OrderBy("created_at ASC", "id ASC")
	return r.queryList(ctx, r.storage, builder)
}

func (r *workOrderRepository) ListOpen(ctx context.Context) ([]entities.WorkOrder, error) {
	builder := psql.Select(workOrderFields...).From(workOrderTable).
		Where(sq.NotEq{"status": constants.StatusClosed}).
		OrderBy("created_at ASC", "id ASC")
	return r.queryList(ctx, r.storage, builder)
}

func (r *workOrderRepository) ListByEquipment(ctx context.Context, equipmentID string) ([]entities.WorkOrder, error) {
	builder := psql.Select(workOrderFields...).From(workOrderTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("created_at DESC", "id ASC")
	return r.queryList(ctx, r.storage, builder)
}

// ListOpenByEquipmentInTx reads the non-closed orders of one equipment inside tx.
func (r *workOrderRepository) ListOpenByEquipmentInTx(ctx context.Context, tx pgx.Tx, equipmentID string) ([]entities.WorkOrder, error) {
	builder := psql.Select(workOrderFields...).From(workOrderTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		Where(sq.NotEq{"status": constants.StatusClosed}).
		OrderBy("created_at ASC", "id ASC")
	return r.queryList(ctx, r.getQuerier(tx), builder)
}

func (r *workOrderRepository) findOne(ctx context.Context, q Querier, id string, lock bool) (*entities.WorkOrder, error) {
	builder := psql.Select(workOrderFields...).From(workOrderTable).Where(sq.Eq{"id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build work order query: %w", err)
	}
	wo, err := scanWorkOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	orders := []entities.WorkOrder{*wo}
	if err := r.attachHistory(ctx, q, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *workOrderRepository) FindByID(ctx context.Context, id string) (*entities.WorkOrder, error) {
	return r.findOne(ctx, r.storage, id, false)
}

// FindByIDForUpdate locks the work order row until tx ends.
func (r *workOrderRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.WorkOrder, error) {
	return r.findOne(ctx, r.getQuerier(tx), id, true)
}

func (r *workOrderRepository) CreateInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error {
	query, args, err := psql.Insert(workOrderTable).
		Columns("id", "equipment_id", "type", "status", "departure_reason", "description",
			"estimated_repair_date", "parts_needed", "assigned_to", "reported_by", "calibration_certificate_url",
			"created_at", "updated_at").
		Values(wo.ID, wo.EquipmentID, wo.Type, wo.Status, wo.DepartureReason, wo.Description,
			nullableDate(wo.EstimatedRepairDate), wo.PartsNeeded, wo.AssignedTo, wo.ReportedBy, wo.CalibrationCertificateURL,
			wo.CreatedAt, wo.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build work order insert: %w", err)
	}

	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("work order %s: %w", wo.ID, apperrors.ErrConflict)
			case "23503":
				return fmt.Errorf("equipment %s: %w", wo.EquipmentID, apperrors.ErrNotFound)
			}
		}
		return fmt.Errorf("failed to create work order: %w", err)
	}
	return nil
}

// UpdateInTx writes the mutable columns. EquipmentID, Type and CreatedAt are never updated.
func (r *workOrderRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error {
	query, args, err := psql.Update(workOrderTable).
		Set("status", wo.Status).
		Set("departure_reason", wo.DepartureReason).
		Set("description", wo.Description).
		Set("estimated_repair_date", nullableDate(wo.EstimatedRepairDate)).
		Set("parts_needed", wo.PartsNeeded).
		Set("assigned_to", wo.AssignedTo).
		Set("reported_by", wo.ReportedBy).
		Set("calibration_certificate_url", wo.CalibrationCertificateURL).
		Set("updated_at", wo.UpdatedAt).
		Where(sq.Eq{"id": wo.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build work order update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *workOrderRepository) AppendHistoryInTx(ctx context.Context, tx pgx.Tx, workOrderID string, entries []entities.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	builder := psql.Insert(workOrderHistoryTable).Columns("work_order_id", `"timestamp"`, "user_id", "action")
	for _, e := range entries {
		builder = builder.Values(workOrderID, e.Timestamp, e.UserID, e.Action)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build history insert: %w", err)
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append work order history: %w", err)
	}
	return nil
}
