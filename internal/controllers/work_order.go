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

type WorkOrderController struct {
	service services.WorkOrderServiceInterface
	logger  *zap.Logger
}

func NewWorkOrderController(service services.WorkOrderServiceInterface, logger *zap.Logger) *WorkOrderController {
	return &WorkOrderController{service: service, logger: logger}
}

// bindBody binds and validates the JSON payload into d.
func (c *WorkOrderController) bindBody(ctx echo.Context, d interface{}) error {
	if err := ctx.Bind(d); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil)
	}
	return ctx.Validate(d)
}

func (c *WorkOrderController) respond(ctx echo.Context, result *dto.WorkOrderResultDTO, err error, message string, code int) error {
	if err != nil {
		return utils.ErrorResponse(ctx, domainError(err), c.logger)
	}
	return utils.SuccessResponse(ctx, result, message, code)
}

func (c *WorkOrderController) CreateWorkOrder(ctx echo.Context) error {
	var d dto.CreateWorkOrderDTO
	if err := c.bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.Create(ctx.Request().Context(), d)
	return c.respond(ctx, result, err, "work order created", http.StatusCreated)
}

func (c *WorkOrderController) FindWorkOrder(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	wo, err := c.service.Find(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "work order found", http.StatusOK)
}

func (c *WorkOrderController) Assign(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.AssignWorkOrderDTO
	if err := c.bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.Assign(ctx.Request().Context(), id, d)
	return c.respond(ctx, result, err, "work order assigned", http.StatusOK)
}

func (c *WorkOrderController) UpdateProgress(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateProgressDTO
	if err := c.bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.UpdateProgress(ctx.Request().Context(), id, d)
	return c.respond(ctx, result, err, "progress recorded", http.StatusOK)
}

func (c *WorkOrderController) Close(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.CloseWorkOrderDTO
	if err := c.bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.Close(ctx.Request().Context(), id, d)
	return c.respond(ctx, result, err, "work order closed", http.StatusOK)
}

func (c *WorkOrderController) AttachCertificate(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.CertificateDTO
	if err := c.bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.AttachCertificate(ctx.Request().Context(), id, d)
	return c.respond(ctx, result, err, "certificate attached", http.StatusOK)
}

func (c *WorkOrderController) RemoveCertificate(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.RemoveCertificate(ctx.Request().Context(), id)
	return c.respond(ctx, result, err, "certificate removed", http.StatusOK)
}
