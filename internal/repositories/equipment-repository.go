package repositories

import (
	"context"
	"errors"
	"fmt"

	"biomed-system/internal/entities"
	db "biomed-system/internal/infrastructure/bd"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const equipmentTable = "equipments"

var equipmentFields = []string{
	"id", "name", "brand", "model", "serial_number", "location", "inventory_number", "status",
	dateColumn("last_maintenance_date"),
	dateColumn("next_maintenance_date"),
	dateColumn("last_calibration_date"),
	dateColumn("next_calibration_date"),
	"created_at", "updated_at",
}

// allowedEquipmentFilters whitelists filter[...] keys against column names.
var allowedEquipmentFilters = map[string]string{
	"id":               "id",
	"status":           "status",
	"location":         "location",
	"brand":            "brand",
	"model":            "model",
	"serial_number":    "serial_number",
	"inventory_number": "inventory_number",
}

var allowedEquipmentSortFields = map[string]string{
	"name":                  "name",
	"location":              "location",
	"inventory_number":      "inventory_number",
	"status":                "status",
	"next_maintenance_date": "next_maintenance_date",
	"created_at":            "created_at",
}

var equipmentSearchColumns = []string{"name", "serial_number", "inventory_number", "location"}

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	ListAll(ctx context.Context) ([]entities.Equipment, error)
	FindByID(ctx context.Context, id string) (*entities.Equipment, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error)
	Create(ctx context.Context, eq entities.Equipment) error
	UpdateDetails(ctx context.Context, eq entities.Equipment) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) error
	UpsertBySerialInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) (bool, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func (r *equipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var eq entities.Equipment
	err := row.Scan(
		&eq.ID, &eq.Name, &eq.Brand, &eq.Model, &eq.SerialNumber, &eq.Location, &eq.InventoryNumber, &eq.Status,
		&eq.LastMaintenanceDate, &eq.NextMaintenanceDate, &eq.LastCalibrationDate, &eq.NextCalibrationDate,
		&eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("equipment scan failed: %w", err)
	}
	return &eq, nil
}

func (r *equipmentRepository) collect(rows pgx.Rows) ([]entities.Equipment, error) {
	defer rows.Close()
	list := make([]entities.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *eq)
	}
	return list, rows.Err()
}

func applyEquipmentFilter(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	builder = db.ApplyFilters(builder, filter, allowedEquipmentFilters)
	return db.ApplySearch(builder, filter.Search, equipmentSearchColumns...)
}

func (r *equipmentRepository) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	countBuilder := applyEquipmentFilter(psql.Select("COUNT(*)").From(equipmentTable), filter)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build equipment count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	builder := applyEquipmentFilter(psql.Select(equipmentFields...).From(equipmentTable), filter)
	builder, sorted := db.ApplySort(builder, filter, allowedEquipmentSortFields)
	if !sorted {
		builder = builder.OrderBy("location ASC", "inventory_number ASC")
	}
	builder = db.ApplyPagination(builder.OrderBy("id ASC"), filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build equipment list query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}
	list, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *equipmentRepository) ListAll(ctx context.Context) ([]entities.Equipment, error) {
	query, args, err := psql.Select(equipmentFields...).From(equipmentTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build equipment query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}
	return r.collect(rows)
}

func (r *equipmentRepository) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	query, args, err := psql.Select(equipmentFields...).From(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build equipment query: %w", err)
	}
	return scanEquipment(r.storage.QueryRow(ctx, query, args...))
}

// FindByIDForUpdate locks the equipment row until tx ends.
func (r *equipmentRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	query, args, err := psql.Select(equipmentFields...).From(equipmentTable).Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build equipment query: %w", err)
	}
	return scanEquipment(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *equipmentRepository) Create(ctx context.Context, eq entities.Equipment) error {
	query, args, err := psql.Insert(equipmentTable).
		Columns("id", "name", "brand", "model", "serial_number", "location", "inventory_number", "status",
			"last_maintenance_date", "next_maintenance_date", "last_calibration_date", "next_calibration_date",
			"created_at", "updated_at").
		Values(eq.ID, eq.Name, eq.Brand, eq.Model, eq.SerialNumber, eq.Location, eq.InventoryNumber, eq.Status,
			nullableDate(eq.LastMaintenanceDate), eq.NextMaintenanceDate, nullableDate(eq.LastCalibrationDate), nullableDate(eq.NextCalibrationDate),
			sq.Expr("NOW()"), sq.Expr("NOW()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build equipment insert: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("equipment with serial number %s: %w", eq.SerialNumber, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

// UpdateDetails writes the administrative columns of eq. Maintenance dates
// are owned by work order closure and are left untouched.
func (r *equipmentRepository) UpdateDetails(ctx context.Context, eq entities.Equipment) error {
	query, args, err := psql.Update(equipmentTable).
		Set("name", eq.Name).
		Set("brand", eq.Brand).
		Set("model", eq.Model).
		Set("serial_number", eq.SerialNumber).
		Set("location", eq.Location).
		Set("inventory_number", eq.InventoryNumber).
		Set("status", eq.Status).
		Set("last_calibration_date", nullableDate(eq.LastCalibrationDate)).
		Set("next_calibration_date", nullableDate(eq.NextCalibrationDate)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": eq.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build equipment update: %w", err)
	}
	return r.execUpdate(ctx, nil, eq, query, args)
}

func (r *equipmentRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) error {
	query, args, err := psql.Update(equipmentTable).
		Set("name", eq.Name).
		Set("brand", eq.Brand).
		Set("model", eq.Model).
		Set("serial_number", eq.SerialNumber).
		Set("location", eq.Location).
		Set("inventory_number", eq.InventoryNumber).
		Set("status", eq.Status).
		Set("last_maintenance_date", nullableDate(eq.LastMaintenanceDate)).
		Set("next_maintenance_date", eq.NextMaintenanceDate).
		Set("last_calibration_date", nullableDate(eq.LastCalibrationDate)).
		Set("next_calibration_date", nullableDate(eq.NextCalibrationDate)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": eq.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build equipment update: %w", err)
	}

	return r.execUpdate(ctx, tx, eq, query, args)
}

func (r *equipmentRepository) execUpdate(ctx context.Context, tx pgx.Tx, eq entities.Equipment, query string, args []interface{}) error {
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("equipment with serial number %s: %w", eq.SerialNumber, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpsertBySerialInTx inserts eq or refreshes the descriptive fields of the
// record with the same serial number. Status and maintenance dates of an
// existing record are left alone. It reports whether a row was inserted.
func (r *equipmentRepository) UpsertBySerialInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) (bool, error) {
	query, args, err := psql.Insert(equipmentTable).
		Columns("id", "name", "brand", "model", "serial_number", "location", "inventory_number", "status",
			"last_maintenance_date", "next_maintenance_date", "last_calibration_date", "next_calibration_date").
		Values(eq.ID, eq.Name, eq.Brand, eq.Model, eq.SerialNumber, eq.Location, eq.InventoryNumber, eq.Status,
			nullableDate(eq.LastMaintenanceDate), eq.NextMaintenanceDate, nullableDate(eq.LastCalibrationDate), nullableDate(eq.NextCalibrationDate)).
		Suffix(`ON CONFLICT (serial_number) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			model = EXCLUDED.model,
			location = COALESCE(NULLIF(EXCLUDED.location, ''), equipments.location),
			inventory_number = COALESCE(NULLIF(EXCLUDED.inventory_number, ''), equipments.inventory_number),
			updated_at = NOW()
		RETURNING (xmax = 0) AS is_insert`).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build equipment upsert: %w", err)
	}

	var inserted bool
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("failed to upsert equipment %s: %w", eq.SerialNumber, err)
	}
	return inserted, nil
}
