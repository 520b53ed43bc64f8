package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Auditoria-api/docs"
	appanalytics "github.com/jhoicas/Auditoria-api/internal/application/analytics"
	"github.com/jhoicas/Auditoria-api/internal/application/auth"
	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Auditoria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Auditoria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Auditoria-api/internal/interfaces/http"
	"github.com/jhoicas/Auditoria-api/pkg/config"
	"github.com/jhoicas/Auditoria-api/pkg/logger"
)

// @title                       Auditoría Médica API
// @version                     1.0
// @description                 Auditoría de servicios de salud, validación CIE-11 y prefacturación por IPS.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	doctorRepo := postgres.NewDoctorRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	cie11Repo := postgres.NewCIE11Repository(pool)
	serviceRepo := postgres.NewServiceRecordRepository(pool)
	preBillRepo := postgres.NewPreBillRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	moduleSvc := usecase.NewModuleService()
	cie11UC := usecase.NewCIE11UseCase(cie11Repo, cfg.Import.MaxRows)
	authUC := auth.NewAuthUseCase(userRepo, moduleSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.Policy{
		MaxAttempts:  cfg.Auth.MaxLoginAttempts,
		LockDuration: time.Duration(cfg.Auth.LockMinutes) * time.Minute,
	})

	// PDF: soporte imprimible de la prefactura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	deps := httpRouter.RouterDeps{
		AuthUC:        authUC,
		ModuleService: moduleSvc,
		CompanyUC:     usecase.NewCompanyUseCase(companyRepo),
		UserUC:        usecase.NewUserUseCase(userRepo, companyRepo),
		DoctorUC:      usecase.NewDoctorUseCase(doctorRepo, companyRepo, cfg.Import.MaxRows),
		PatientUC:     usecase.NewPatientUseCase(patientRepo, cfg.Import.MaxRows),
		CIE11UC:       cie11UC,
		ServiceUC:     usecase.NewServiceRecordUseCase(serviceRepo, patientRepo, doctorRepo, companyRepo, cie11UC),
		PreBillUC: usecase.NewPreBillUseCase(
			txRunner, preBillRepo, serviceRepo, companyRepo, patientRepo, doctorRepo, pdfGenerator,
		),
		DashboardUC: appanalytics.NewDashboardUseCase(analyticsRepo),
		JWTSecret:   cfg.JWT.Secret,
		MaxUpload:   int64(cfg.Import.MaxFileSize),
	}

	// Redis es opcional: sin REDIS_URL el login solo queda protegido por el bloqueo de cuentas.
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, límite de login por IP desactivado")
		} else {
			defer rdb.Close()
			deps.LoginLimiter = cache.NewRateLimiter(rdb, cfg.Auth.LoginRateLimit, time.Minute)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.Import.MaxFileSize + 1<<20,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Auditoría Médica API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// errorHandler responde los errores de Fiber (404 de ruta, body demasiado grande, panics
// recuperados) con el mismo sobre que los handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "error interno del servidor"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
	}
	return c.Status(code).JSON(dto.Fail("HTTP_"+strconv.Itoa(code), msg))
}
