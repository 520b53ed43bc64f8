package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
)

// PatientHandler registro de pacientes compartido entre empresas.
type PatientHandler struct {
	uc        *usecase.PatientUseCase
	maxUpload int64
}

// NewPatientHandler construye el handler.
func NewPatientHandler(uc *usecase.PatientUseCase, maxUpload int64) *PatientHandler {
	return &PatientHandler{uc: uc, maxUpload: maxUpload}
}

// Create godoc
// @Summary      Registrar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePatientRequest  true  "Datos del paciente"
// @Success      201   {object}  dto.SuccessResponse{data=dto.PatientResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "documento ya registrado"
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePatientRequest
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
// @Summary      Obtener paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.SuccessResponse{data=dto.PatientResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del paciente"
// @Param        body  body  dto.UpdatePatientRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SuccessResponse{data=dto.PatientResponse}
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePatientRequest
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
// @Summary      Desactivar paciente
// @Tags         patients
// @Security     Bearer
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return deleted(c)
}

// List godoc
// @Summary      Listar pacientes
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        search   query  string  false  "Nombre o documento"
// @Param        insurer  query  string  false  "EPS"
// @Param        active   query  bool    false  "Estado"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200      {object}  dto.SuccessResponse{data=dto.ListResponse[dto.PatientResponse]}
// @Router       /api/patients [get]
func (h *PatientHandler) List(c *fiber.Ctx) error {
	var in dto.PatientFilter
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
// @Summary      Carga masiva de pacientes (.xlsx / .csv)
// @Tags         patients
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .xlsx o .csv"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ImportSummary}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/patients/import [post]
func (h *PatientHandler) Import(c *fiber.Ctx) error {
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
