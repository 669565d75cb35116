package routes

import (
	"biomed-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runWorkOrderRouter(secureGroup *echo.Group, workOrderCtrl *controllers.WorkOrderController) {
	orders := secureGroup.Group("/work-orders")
	{
		orders.POST("", workOrderCtrl.CreateWorkOrder)
		orders.GET("/:id", workOrderCtrl.FindWorkOrder)
		orders.POST("/:id/assign", workOrderCtrl.Assign)
		orders.POST("/:id/progress", workOrderCtrl.UpdateProgress)
		orders.POST("/:id/close", workOrderCtrl.Close)
		orders.POST("/:id/certificate", workOrderCtrl.AttachCertificate)
		orders.DELETE("/:id/certificate", workOrderCtrl.RemoveCertificate)
	}
}
