package routes

import (
	"github.com/labstack/echo/v4"

	"biomed-system/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, reportController *controllers.ReportController) {
	secureGroup.GET("/reports/annual", reportController.GetAnnualReport)
}
