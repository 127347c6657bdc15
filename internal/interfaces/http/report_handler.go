package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/analytics"
)

// ReportHandler reportes de ventas (OWNER y ADMIN).
type ReportHandler struct {
	dashboard     *analytics.DashboardUseCase
	replenishment *analytics.ReplenishmentUseCase
}

func NewReportHandler(dashboard *analytics.DashboardUseCase, replenishment *analytics.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, replenishment: replenishment}
}

// Dashboard godoc
// @Summary      Resumen de ventas del día y del mes
// @Description  Ventas COMPLETED del tenant; con storeId se limita a esa tienda.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  false  "ID de la tienda"
// @Success      200  {object}  dto.DashboardSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext(), GetActor(c), c.Query("storeId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo el stock mínimo, priorizados por margen y ventas de los últimos 90 días.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  false  "ID de la tienda"
// @Success      200  {array}   dto.ReplenishmentSuggestion
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.Generate(c.UserContext(), GetActor(c), c.Query("storeId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
