package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"biomed-system/internal/dto"
	"biomed-system/internal/maintenance"
	"biomed-system/internal/services"
	"biomed-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

const reportTimeoutSeconds = 30

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetAnnualReport(ctx echo.Context) error {
	year, err := parseYear(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	format := strings.ToLower(ctx.QueryParam("format"))
	c.logger.Debug("annual report requested", zap.Int("year", year), zap.String("format", format))

	reqCtx, cancel := utils.ContextWithTimeout(ctx, reportTimeoutSeconds)
	defer cancel()

	report, err := c.reportService.GetAnnualReport(reqCtx, year)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, report)
	}
	return utils.SuccessResponse(ctx, report, "annual maintenance report", http.StatusOK)
}

var monthHeaders = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

var leadingHeaders = []string{
	"Área", "N° Inventario", "Equipo", "Marca", "Modelo", "N° Serie", "Ubicación", "Estado",
	"Último mantenimiento", "Próximo mantenimiento",
}

var trailingHeaders = []string{"Estatus", "Realizados"}

func reportHeaders() []interface{} {
	headers := make([]interface{}, 0, len(leadingHeaders)+len(monthHeaders)+len(trailingHeaders))
	for _, group := range [][]string{leadingHeaders, monthHeaders, trailingHeaders} {
		for _, h := range group {
			headers = append(headers, h)
		}
	}
	return headers
}

// monthCells renders the twelve month columns: the visit label plus its outcome.
func monthCells(row maintenance.ReportRow) ([12]string, [12]maintenance.VisitStatus) {
	var cells [12]string
	var statuses [12]maintenance.VisitStatus
	for _, v := range row.Visits {
		if v.Visit.Month < 0 || v.Visit.Month > 11 {
			continue
		}
		cells[v.Visit.Month] = v.Visit.Label
		if v.Text != "" {
			cells[v.Visit.Month] += " - " + v.Text
		}
		statuses[v.Visit.Month] = v.Status
	}
	return cells, statuses
}

func reportRowToSlice(row maintenance.ReportRow) []interface{} {
	eq := row.Equipment
	out := []interface{}{
		row.Area, row.InventoryNumber, eq.Name, eq.Brand, eq.Model, eq.SerialNumber, eq.Location,
		row.EffectiveStatus.Label, eq.LastMaintenanceDate.String, eq.NextMaintenanceDate,
	}
	cells, _ := monthCells(row)
	for _, cell := range cells {
		out = append(out, cell)
	}
	return append(out, row.Aggregate.Label, fmt.Sprintf("%d/%d", row.Aggregate.Done, row.Aggregate.Total))
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, report *dto.AnnualReportDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Plan %d", report.Year)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	headers := reportHeaders()
	f.SetSheetRow(sheet, "A1", &headers)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", lastCol+"1", bold)

	fills := map[maintenance.VisitStatus]int{}
	for status, color := range map[maintenance.VisitStatus]string{
		maintenance.VisitDone:     "C6EFCE",
		maintenance.VisitOverdue:  "FFC7CE",
		maintenance.VisitUpcoming: "FFEB9C",
	} {
		style, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}})
		if err == nil {
			fills[status] = style
		}
	}

	firstMonthCol := len(leadingHeaders) + 1
	for i, row := range report.Rows {
		line := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, line)
		values := reportRowToSlice(row)
		f.SetSheetRow(sheet, cell, &values)

		_, statuses := monthCells(row)
		for m, status := range statuses {
			style, ok := fills[status]
			if !ok {
				continue
			}
			monthCell, _ := excelize.CoordinatesToCellName(firstMonthCol+m, line)
			f.SetCellStyle(sheet, monthCell, monthCell, style)
		}
	}

	f.SetColWidth(sheet, "A", "B", 16)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "G", 18)
	f.SetColWidth(sheet, "H", "J", 20)
	firstMonth, _ := excelize.ColumnNumberToName(firstMonthCol)
	lastMonth, _ := excelize.ColumnNumberToName(firstMonthCol + 11)
	f.SetColWidth(sheet, firstMonth, lastMonth, 14)

	fileName := fmt.Sprintf("plan_mantenimiento_%d_%s.xlsx", report.Year, report.Today)
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
