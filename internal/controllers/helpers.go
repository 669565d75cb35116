package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"biomed-system/internal/maintenance"
	apperrors "biomed-system/pkg/errors"

	"github.com/labstack/echo/v4"
)

// domainError turns a rejected engine transition into a 409. Other errors
// pass through to utils.ErrorResponse unchanged.
func domainError(err error) error {
	var te *maintenance.TransitionError
	if errors.As(err, &te) {
		httpErr := apperrors.NewHttpError(http.StatusConflict, te.Reason, nil, nil)
		httpErr.Details = map[string]interface{}{
			"workOrderId": te.WorkOrderID,
			"action":      te.Action,
			"from":        te.From,
		}
		return httpErr
	}
	return err
}

// parseYear reads ?year=; zero means "current year".
func parseYear(ctx echo.Context) (int, error) {
	raw := strings.TrimSpace(ctx.QueryParam("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("invalid year %q", raw), err, nil)
	}
	return year, nil
}

func pathID(ctx echo.Context) (string, error) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "missing id", nil, nil)
	}
	return id, nil
}
