package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
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

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// The header row must be among the first rows of a sheet.
const importHeaderScanRows = 15

type importColumn int

const (
	colName importColumn = iota
	colBrand
	colModel
	colSerial
	colLocation
	colInventory
	colLastMaintenance
	colNextMaintenance
	colLastCalibration
	colNextCalibration
	columnCount
)

// importHeaders lists accepted header fragments per column, lower case.
// Longer, more specific fragments come first so "próximo mantenimiento" is
// not mistaken for a plain name column.
var importHeaders = []struct {
	column    importColumn
	fragments []string
}{
	{colLastMaintenance, []string{"último mantenimiento", "ultimo mantenimiento", "last maintenance"}},
	{colNextMaintenance, []string{"próximo mantenimiento", "proximo mantenimiento", "next maintenance"}},
	{colLastCalibration, []string{"última calibración", "ultima calibracion", "last calibration"}},
	{colNextCalibration, []string{"próxima calibración", "proxima calibracion", "next calibration"}},
	{colSerial, []string{"serie", "serial"}},
	{colInventory, []string{"inventario", "inventory"}},
	{colLocation, []string{"ubicación", "ubicacion", "servicio", "location"}},
	{colBrand, []string{"marca", "brand"}},
	{colModel, []string{"modelo", "model"}},
	{colName, []string{"nombre", "equipo", "name"}},
}

type EquipmentImporterInterface interface {
	Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error)
	ImportFile(ctx context.Context, path string) (*dto.ImportResultDTO, error)
}

// EquipmentImporter loads an equipment inventory spreadsheet and upserts it by serial number.
type EquipmentImporter struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewEquipmentImporter(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentImporterInterface {
	return &EquipmentImporter{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		bus:           bus,
		logger:        logger,
	}
}

func (s *EquipmentImporter) ImportFile(ctx context.Context, path string) (*dto.ImportResultDTO, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return s.importWorkbook(ctx, f)
}

func (s *EquipmentImporter) Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("file is not a readable xlsx workbook: %v", err)
	}
	defer f.Close()
	return s.importWorkbook(ctx, f)
}

type parsedRow struct {
	line      int
	equipment entities.Equipment
}

func (s *EquipmentImporter) importWorkbook(ctx context.Context, f *excelize.File) (*dto.ImportResultDTO, error) {
	sheet, rows, headerRow, columns, err := findHeader(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("equipment import header found", zap.String("sheet", sheet), zap.Int("row", headerRow+1))

	result := &dto.ImportResultDTO{Sheet: sheet, Errors: []dto.ImportRowErrorDTO{}}
	var valid []parsedRow
	seen := make(map[string]int)

	for i := headerRow + 1; i < len(rows); i++ {
		line := i + 1
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		eq, problem := rowToEquipment(row, columns)
		if problem != "" {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowErrorDTO{Row: line, Serial: eq.SerialNumber, Message: problem})
			continue
		}
		if first, dup := seen[eq.SerialNumber]; dup {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowErrorDTO{
				Row: line, Serial: eq.SerialNumber,
				Message: fmt.Sprintf("serial number already used on row %d", first),
			})
			continue
		}
		seen[eq.SerialNumber] = line
		valid = append(valid, parsedRow{line: line, equipment: eq})
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, p := range valid {
			inserted, err := s.equipmentRepo.UpsertBySerialInTx(ctx, tx, p.equipment)
			if err != nil {
				return fmt.Errorf("row %d: %w", p.line, err)
			}
			if inserted {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("equipment import failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("equipment import finished",
		zap.String("sheet", sheet),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	if result.Created+result.Updated > 0 {
		s.bus.PublishSync(ctx, events.EquipmentChangedEvent{Reason: "import"})
	}
	return result, nil
}

// findHeader returns the first sheet that has a header row naming at least
// the name, serial and next maintenance columns.
func findHeader(f *excelize.File) (string, [][]string, int, [columnCount]int, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", nil, 0, [columnCount]int{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		for i := 0; i < len(rows) && i < importHeaderScanRows; i++ {
			columns := matchHeader(rows[i])
			if columns[colName] >= 0 && columns[colSerial] >= 0 && columns[colNextMaintenance] >= 0 {
				return sheet, rows, i, columns, nil
			}
		}
	}
	return "", nil, 0, [columnCount]int{}, apperrors.NewInvalidInputError("no header row found: expected name, serial number and next maintenance columns")
}

func matchHeader(row []string) [columnCount]int {
	var columns [columnCount]int
	for i := range columns {
		columns[i] = -1
	}
	for idx, cell := range row {
		label := strings.ToLower(strings.TrimSpace(cell))
		if label == "" {
			continue
		}
	match:
		for _, h := range importHeaders {
			for _, fragment := range h.fragments {
				if strings.Contains(label, fragment) {
					if columns[h.column] < 0 {
						columns[h.column] = idx
					}
					break match
				}
			}
		}
	}
	return columns
}

func rowToEquipment(row []string, columns [columnCount]int) (entities.Equipment, string) {
	get := func(c importColumn) string {
		idx := columns[c]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	eq := entities.Equipment{
		ID:              uuid.New().String(),
		Name:            get(colName),
		Brand:           get(colBrand),
		Model:           get(colModel),
		SerialNumber:    get(colSerial),
		Location:        get(colLocation),
		InventoryNumber: get(colInventory),
		Status:          constants.EquipmentOperational,
	}
	if eq.Name == "" {
		return eq, "name is empty"
	}
	if eq.SerialNumber == "" {
		return eq, "serial number is empty"
	}

	next, ok := normalizeImportDate(get(colNextMaintenance))
	if !ok {
		return eq, fmt.Sprintf("next maintenance date %q is not a date", get(colNextMaintenance))
	}
	eq.NextMaintenanceDate = next
	eq.LastMaintenanceDate = optionalImportDate(get(colLastMaintenance))
	eq.LastCalibrationDate = optionalImportDate(get(colLastCalibration))
	eq.NextCalibrationDate = optionalImportDate(get(colNextCalibration))
	return eq, ""
}

// normalizeImportDate accepts Excel serial dates, YYYY-MM-DD and DD/MM/YYYY.
func normalizeImportDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if t, ok := maintenance.ParseDate(raw); ok {
		return maintenance.FormatDate(t), true
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return maintenance.FormatDate(t), true
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return maintenance.FormatDate(t), true
		}
	}
	return "", false
}

func optionalImportDate(raw string) null.String {
	if d, ok := normalizeImportDate(raw); ok {
		return null.StringFrom(d)
	}
	return null.String{}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
