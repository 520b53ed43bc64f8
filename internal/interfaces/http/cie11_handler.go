package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
)

// CIE11Handler catálogo de diagnósticos y validación de códigos.
type CIE11Handler struct {
	uc        *usecase.CIE11UseCase
	maxUpload int64
}

// NewCIE11Handler construye el handler.
func NewCIE11Handler(uc *usecase.CIE11UseCase, maxUpload int64) *CIE11Handler {
	return &CIE11Handler{uc: uc, maxUpload: maxUpload}
}

// Validate godoc
// @Summary      Validar código CIE-11
// @Description  isValid es true solo si el código existe, está activo y es facturable.
// @Tags         cie11
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código CIE-11, ej. 5A11"
// @Success      200   {object}  dto.SuccessResponse
// @Router       /api/cie11/validate/{code} [get]
func (h *CIE11Handler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.Validate(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Agregar código al catálogo
// @Tags         cie11
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCIE11Request  true  "Código"
// @Success      201   {object}  dto.SuccessResponse{data=dto.CIE11Response}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cie11 [post]
func (h *CIE11Handler) Create(c *fiber.Ctx) error {
	var in dto.CreateCIE11Request
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, out)
}

// GetByID godoc
// @Summary      Obtener código por ID
// @Tags         cie11
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SuccessResponse{data=dto.CIE11Response}
// @Router       /api/cie11/{id} [get]
func (h *CIE11Handler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar código
// @Tags         cie11
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.UpdateCIE11Request  true  "Campos a actualizar"
// @Success      200   {object}  dto.SuccessResponse{data=dto.CIE11Response}
// @Router       /api/cie11/{id} [put]
func (h *CIE11Handler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCIE11Request
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Desactivar código
// @Tags         cie11
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/cie11/{id} [delete]
func (h *CIE11Handler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return deleted(c)
}

// List godoc
// @Summary      Buscar en el catálogo
// @Description  search con forma de código busca por prefijo; si no, por descripción sin tildes.
// @Tags         cie11
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Código o texto"
// @Param        billable  query  bool    false  "Facturable"
// @Param        active    query  bool    false  "Estado"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.SuccessResponse{data=dto.ListResponse[dto.CIE11Response]}
// @Router       /api/cie11 [get]
func (h *CIE11Handler) List(c *fiber.Ctx) error {
	var in dto.CIE11Filter
	if err := c.QueryParser(&in); err != nil {
		return fail(c, queryErr(err))
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Import godoc
// @Summary      Carga masiva del catálogo CIE-11 (.xlsx / .csv)
// @Tags         cie11
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .xlsx o .csv"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ImportSummary}
// @Router       /api/cie11/import [post]
func (h *CIE11Handler) Import(c *fiber.Ctx) error {
	rows, err := readUpload(c, h.maxUpload)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.uc.Import(c.UserContext(), actor(c), rows)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}
