package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
)

// ServiceHandler servicios prestados y su auditoría.
type ServiceHandler struct {
	uc *usecase.ServiceRecordUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *usecase.ServiceRecordUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar servicio prestado
// @Description  Valida el diagnóstico CIE-11 contra el catálogo, el sexo y la edad del paciente.
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRecordRequest  true  "Servicio"
// @Success      201   {object}  dto.SuccessResponse{data=dto.ServiceRecordResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRecordRequest
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
// @Summary      Obtener servicio
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ServiceRecordResponse}
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar servicio
// @Description  Un servicio ya prefacturado no se puede modificar (409).
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del servicio"
// @Param        body  body  dto.UpdateServiceRecordRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ServiceRecordResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Audit godoc
// @Summary      Auditar servicio
// @Description  status approved u objected; objetar exige notas y admite valor glosado parcial.
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del servicio"
// @Param        body  body  dto.AuditServiceRecordRequest  true  "Resultado de la auditoría"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ServiceRecordResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/audit [put]
func (h *ServiceHandler) Audit(c *fiber.Ctx) error {
	var in dto.AuditServiceRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Audit(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Anular servicio
// @Tags         services
// @Security     Bearer
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return deleted(c)
}

// List godoc
// @Summary      Listar servicios
// @Description  Solo devuelve servicios de las empresas visibles para el usuario.
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        companyId      query  string  false  "Empresa"
// @Param        patientId      query  string  false  "Paciente"
// @Param        doctorId       query  string  false  "Médico"
// @Param        status         query  string  false  "pending, approved, objected, billed"
// @Param        serviceType    query  string  false  "Tipo de servicio"
// @Param        diagnosisCode  query  string  false  "Código CIE-11"
// @Param        insurer        query  string  false  "EPS del paciente"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        search         query  string  false  "Texto libre"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200            {object}  dto.SuccessResponse{data=dto.ListResponse[dto.ServiceRecordResponse]}
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	var in dto.ServiceRecordFilter
	if err := c.QueryParser(&in); err != nil {
		return fail(c, queryErr(err))
	}
	out, err := h.uc.List(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}
