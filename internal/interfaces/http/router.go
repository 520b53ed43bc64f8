package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Auditoria-api/internal/application/analytics"
	"github.com/jhoicas/Auditoria-api/internal/application/auth"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ModuleService *usecase.ModuleService
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	DoctorUC      *usecase.DoctorUseCase
	PatientUC     *usecase.PatientUseCase
	CIE11UC       *usecase.CIE11UseCase
	ServiceUC     *usecase.ServiceRecordUseCase
	PreBillUC     *usecase.PreBillUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	LoginLimiter  RateLimiter // nil = sin límite por IP
	MaxUpload     int64       // bytes por archivo de carga masiva
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	login := []fiber.Handler{authHandler.Login}
	if deps.LoginLimiter != nil {
		login = append([]fiber.Handler{RateLimit(deps.LoginLimiter, "login")}, login...)
	}
	api.Post("/auth/login", login...)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/password", authHandler.ChangePassword)

	can := func(module, action string) fiber.Handler {
		return RequirePermission(deps.ModuleService, module, action)
	}

	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", can(access.ModuleCompanies, access.ActionRead), companyHandler.List)
	companies.Post("/", can(access.ModuleCompanies, access.ActionCreate), companyHandler.Create)
	companies.Get("/:id", can(access.ModuleCompanies, access.ActionRead), companyHandler.GetByID)
	companies.Put("/:id", can(access.ModuleCompanies, access.ActionUpdate), companyHandler.Update)
	companies.Delete("/:id", can(access.ModuleCompanies, access.ActionDelete), companyHandler.Delete)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", can(access.ModuleUsers, access.ActionRead), userHandler.List)
	users.Post("/", can(access.ModuleUsers, access.ActionCreate), userHandler.Create)
	users.Get("/:id", can(access.ModuleUsers, access.ActionRead), userHandler.GetByID)
	users.Put("/:id", can(access.ModuleUsers, access.ActionUpdate), userHandler.Update)
	users.Delete("/:id", can(access.ModuleUsers, access.ActionDelete), userHandler.Delete)
	users.Post("/:id/unlock", can(access.ModuleUsers, access.ActionUpdate), userHandler.Unlock)

	doctors := protected.Group("/doctors")
	doctorHandler := NewDoctorHandler(deps.DoctorUC, deps.MaxUpload)
	doctors.Get("/", can(access.ModuleDoctors, access.ActionRead), doctorHandler.List)
	doctors.Post("/", can(access.ModuleDoctors, access.ActionCreate), doctorHandler.Create)
	doctors.Post("/import", can(access.ModuleImports, access.ActionImport), doctorHandler.Import)
	doctors.Get("/:id", can(access.ModuleDoctors, access.ActionRead), doctorHandler.GetByID)
	doctors.Put("/:id", can(access.ModuleDoctors, access.ActionUpdate), doctorHandler.Update)
	doctors.Delete("/:id", can(access.ModuleDoctors, access.ActionDelete), doctorHandler.Delete)

	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC, deps.MaxUpload)
	patients.Get("/", can(access.ModulePatients, access.ActionRead), patientHandler.List)
	patients.Post("/", can(access.ModulePatients, access.ActionCreate), patientHandler.Create)
	patients.Post("/import", can(access.ModuleImports, access.ActionImport), patientHandler.Import)
	patients.Get("/:id", can(access.ModulePatients, access.ActionRead), patientHandler.GetByID)
	patients.Put("/:id", can(access.ModulePatients, access.ActionUpdate), patientHandler.Update)
	patients.Delete("/:id", can(access.ModulePatients, access.ActionDelete), patientHandler.Delete)

	cie11 := protected.Group("/cie11")
	cie11Handler := NewCIE11Handler(deps.CIE11UC, deps.MaxUpload)
	cie11.Get("/", can(access.ModuleCIE11, access.ActionRead), cie11Handler.List)
	cie11.Post("/", can(access.ModuleCIE11, access.ActionCreate), cie11Handler.Create)
	cie11.Get("/validate/:code", can(access.ModuleCIE11, access.ActionRead), cie11Handler.Validate)
	cie11.Post("/import", can(access.ModuleImports, access.ActionImport), cie11Handler.Import)
	cie11.Get("/:id", can(access.ModuleCIE11, access.ActionRead), cie11Handler.GetByID)
	cie11.Put("/:id", can(access.ModuleCIE11, access.ActionUpdate), cie11Handler.Update)
	cie11.Delete("/:id", can(access.ModuleCIE11, access.ActionDelete), cie11Handler.Delete)

	services := protected.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Get("/", can(access.ModuleServices, access.ActionRead), serviceHandler.List)
	services.Post("/", can(access.ModuleServices, access.ActionCreate), serviceHandler.Create)
	services.Get("/:id", can(access.ModuleServices, access.ActionRead), serviceHandler.GetByID)
	services.Put("/:id", can(access.ModuleServices, access.ActionUpdate), serviceHandler.Update)
	services.Put("/:id/audit", can(access.ModuleServices, access.ActionAudit), serviceHandler.Audit)
	services.Delete("/:id", can(access.ModuleServices, access.ActionDelete), serviceHandler.Delete)

	prebills := protected.Group("/prebills")
	preBillHandler := NewPreBillHandler(deps.PreBillUC)
	prebills.Get("/", can(access.ModulePreBills, access.ActionRead), preBillHandler.List)
	prebills.Post("/", can(access.ModulePreBills, access.ActionCreate), preBillHandler.Generate)
	prebills.Get("/:id", can(access.ModulePreBills, access.ActionRead), preBillHandler.GetByID)
	prebills.Post("/:id/issue", can(access.ModulePreBills, access.ActionUpdate), preBillHandler.Issue)
	prebills.Post("/:id/cancel", can(access.ModulePreBills, access.ActionUpdate), preBillHandler.Cancel)
	prebills.Get("/:id/pdf", can(access.ModulePreBills, access.ActionExport), preBillHandler.PDF)

	reports := protected.Group("/reports")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	reports.Get("/dashboard", can(access.ModuleReports, access.ActionRead), dashboardHandler.GetSummary)
}
