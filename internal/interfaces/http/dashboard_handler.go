package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Auditoria-api/internal/application/analytics"
	"github.com/jhoicas/Auditoria-api/internal/application/dto"
)

// DashboardHandler maneja los indicadores de auditoría.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Indicadores de auditoría
// @Description  Totales por estado, tasa de glosa, diagnósticos y médicos más frecuentes y
// @Description  serie de los últimos 12 meses, limitados a las empresas visibles.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        companyId  query  string  false  "Empresa"
// @Param        from       query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to         query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200        {object}  dto.SuccessResponse{data=dto.DashboardResponse}
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/reports/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var in dto.DashboardFilter
	if err := c.QueryParser(&in); err != nil {
		return fail(c, queryErr(err))
	}
	summary, err := h.uc.GetSummary(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, summary)
}
