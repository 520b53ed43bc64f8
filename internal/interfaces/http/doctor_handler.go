package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
)

// DoctorHandler médicos por empresa, incluida la carga masiva.
type DoctorHandler struct {
	uc        *usecase.DoctorUseCase
	maxUpload int64
}

// NewDoctorHandler construye el handler. maxUpload limita el tamaño del archivo importado.
func NewDoctorHandler(uc *usecase.DoctorUseCase, maxUpload int64) *DoctorHandler {
	return &DoctorHandler{uc: uc, maxUpload: maxUpload}
}

// Create godoc
// @Summary      Registrar médico
// @Tags         doctors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDoctorRequest  true  "Datos del médico"
// @Success      201   {object}  dto.SuccessResponse{data=dto.DoctorResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/doctors [post]
func (h *DoctorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDoctorRequest
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
// @Summary      Obtener médico
// @Tags         doctors
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del médico"
// @Success      200  {object}  dto.SuccessResponse{data=dto.DoctorResponse}
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/doctors/{id} [get]
func (h *DoctorHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar médico
// @Tags         doctors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del médico"
// @Param        body  body  dto.UpdateDoctorRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SuccessResponse{data=dto.DoctorResponse}
// @Router       /api/doctors/{id} [put]
func (h *DoctorHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDoctorRequest
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
// @Summary      Desactivar médico
// @Tags         doctors
// @Security     Bearer
// @Param        id   path  string  true  "ID del médico"
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/doctors/{id} [delete]
func (h *DoctorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return deleted(c)
}

// List godoc
// @Summary      Listar médicos
// @Tags         doctors
// @Security     Bearer
// @Produce      json
// @Param        companyId  query  string  false  "Empresa"
// @Param        search     query  string  false  "Nombre, documento o registro"
// @Param        specialty  query  string  false  "Especialidad"
// @Param        active     query  bool    false  "Estado"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.SuccessResponse{data=dto.ListResponse[dto.DoctorResponse]}
// @Router       /api/doctors [get]
func (h *DoctorHandler) List(c *fiber.Ctx) error {
	var in dto.DoctorFilter
	if err := c.QueryParser(&in); err != nil {
		return fail(c, queryErr(err))
	}
	out, err := h.uc.List(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Import godoc
// @Summary      Carga masiva de médicos (.xlsx / .csv)
// @Description  Las filas sin columna de empresa usan el campo de formulario companyId.
// @Tags         doctors
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Archivo .xlsx o .csv"
// @Param        companyId  formData  string  false  "Empresa por defecto"
// @Success      200        {object}  dto.SuccessResponse{data=dto.ImportSummary}
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/doctors/import [post]
func (h *DoctorHandler) Import(c *fiber.Ctx) error {
	rows, err := readUpload(c, h.maxUpload)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.uc.Import(c.UserContext(), actor(c), c.FormValue("companyId"), rows)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}
