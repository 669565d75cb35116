package controllers

import (
	"net/http"

	"biomed-system/internal/dto"
	"biomed-system/internal/services"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Upper bound for an uploaded inventory workbook.
const maxImportSize = 10 << 20

const importTimeoutSeconds = 60

type EquipmentController struct {
	service   services.EquipmentServiceInterface
	importer  services.EquipmentImporterInterface
	woService services.WorkOrderServiceInterface
	logger    *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	importer services.EquipmentImporterInterface,
	woService services.WorkOrderServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{service: service, importer: importer, woService: woService, logger: logger}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "equipment list", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	year, err := parseYear(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	detail, err := c.service.Find(ctx.Request().Context(), id, year)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, detail, "equipment found", http.StatusOK)
}

func (c *EquipmentController) GetSchedule(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	year, err := parseYear(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	schedule, err := c.service.Schedule(ctx.Request().Context(), id, year)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, schedule, "maintenance schedule", http.StatusOK)
}

func (c *EquipmentController) GetWorkOrders(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.woService.ListByEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "work orders", http.StatusOK)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var d dto.CreateEquipmentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	created, err := c.service.Create(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "equipment created", http.StatusCreated)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateEquipmentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	updated, err := c.service.Update(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "equipment updated", http.StatusOK)
}

func (c *EquipmentController) ImportEquipment(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "multipart field 'file' is required", err, nil), c.logger)
	}
	if file.Size > maxImportSize {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusRequestEntityTooLarge, "file is too large", nil, nil), c.logger)
	}
	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "cannot read uploaded file", err, nil), c.logger)
	}
	defer src.Close()

	reqCtx, cancel := utils.ContextWithTimeout(ctx, importTimeoutSeconds)
	defer cancel()

	result, err := c.importer.Import(reqCtx, src)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("equipment workbook imported",
		zap.String("file", file.Filename),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return utils.SuccessResponse(ctx, result, "import finished", http.StatusOK)
}
