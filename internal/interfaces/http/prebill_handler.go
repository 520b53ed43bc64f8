package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
)

// PreBillHandler prefacturas: generación, emisión, anulación y PDF.
type PreBillHandler struct {
	uc *usecase.PreBillUseCase
}

// NewPreBillHandler construye el handler.
func NewPreBillHandler(uc *usecase.PreBillUseCase) *PreBillHandler {
	return &PreBillHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar prefactura
// @Description  Agrupa los servicios auditados (aprobados u objetados con saldo) del periodo
// @Description  y la EPS indicada que aún no estén prefacturados.
// @Tags         prebills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GeneratePreBillRequest  true  "Empresa, periodo y EPS"
// @Success      201   {object}  dto.SuccessResponse{data=dto.PreBillResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "no hay servicios para prefacturar"
// @Router       /api/prebills [post]
func (h *PreBillHandler) Generate(c *fiber.Ctx) error {
	var in dto.GeneratePreBillRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Generate(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, out)
}

// GetByID godoc
// @Summary      Detalle de prefactura con sus servicios
// @Tags         prebills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la prefactura"
// @Success      200  {object}  dto.SuccessResponse{data=dto.PreBillResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prebills/{id} [get]
func (h *PreBillHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Issue godoc
// @Summary      Emitir prefactura (draft → issued)
// @Tags         prebills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la prefactura"
// @Success      200  {object}  dto.SuccessResponse{data=dto.PreBillResponse}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/prebills/{id}/issue [post]
func (h *PreBillHandler) Issue(c *fiber.Ctx) error {
	out, err := h.uc.Issue(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Cancel godoc
// @Summary      Anular prefactura en borrador
// @Description  Los servicios incluidos vuelven a quedar disponibles para prefacturar.
// @Tags         prebills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la prefactura"
// @Success      200  {object}  dto.SuccessResponse{data=dto.PreBillResponse}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/prebills/{id}/cancel [post]
func (h *PreBillHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// List godoc
// @Summary      Listar prefacturas
// @Tags         prebills
// @Security     Bearer
// @Produce      json
// @Param        companyId  query  string  false  "Empresa"
// @Param        status     query  string  false  "draft, issued, cancelled"
// @Param        insurer    query  string  false  "EPS"
// @Param        search     query  string  false  "Número"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.SuccessResponse{data=dto.ListResponse[dto.PreBillResponse]}
// @Router       /api/prebills [get]
func (h *PreBillHandler) List(c *fiber.Ctx) error {
	var in dto.PreBillFilter
	if err := c.QueryParser(&in); err != nil {
		return fail(c, queryErr(err))
	}
	out, err := h.uc.List(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// PDF godoc
// @Summary      Descargar PDF de la prefactura
// @Tags         prebills
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la prefactura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "prefactura anulada"
// @Router       /api/prebills/{id}/pdf [get]
func (h *PreBillHandler) PDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.PDF(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
