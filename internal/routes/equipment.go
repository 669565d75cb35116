package routes

import (
	"biomed-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runEquipmentRouter(secureGroup *echo.Group, equipmentCtrl *controllers.EquipmentController) {
	secureGroup.GET("/equipment", equipmentCtrl.GetEquipments)
	secureGroup.POST("/equipment", equipmentCtrl.CreateEquipment)
	secureGroup.POST("/equipment/import", equipmentCtrl.ImportEquipment)
	secureGroup.GET("/equipment/:id", equipmentCtrl.FindEquipment)
	secureGroup.PUT("/equipment/:id", equipmentCtrl.UpdateEquipment)
	secureGroup.GET("/equipment/:id/schedule", equipmentCtrl.GetSchedule)
	secureGroup.GET("/equipment/:id/work-orders", equipmentCtrl.GetWorkOrders)
}
