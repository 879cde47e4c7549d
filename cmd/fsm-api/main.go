package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fieldwise/fsm-api/api/swagger"
	"github.com/fieldwise/fsm-api/internal/handler"
	"github.com/fieldwise/fsm-api/internal/middleware"
	"github.com/fieldwise/fsm-api/internal/repository"
	"github.com/fieldwise/fsm-api/internal/service"
	"github.com/fieldwise/fsm-api/pkg/cache"
	"github.com/fieldwise/fsm-api/pkg/config"
	"github.com/fieldwise/fsm-api/pkg/database"
	"github.com/fieldwise/fsm-api/pkg/logger"
	corsmiddleware "github.com/fieldwise/fsm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fieldwise/fsm-api/pkg/middleware/requestid"
	"github.com/fieldwise/fsm-api/pkg/response"
)

// @title FSM Planning API
// @version 1.0.0
// @description Planning subsystem for field-service management
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Reference caching is an optimization; the service runs without it.
		logr.Sugar().Warnw("redis unavailable, reference cache disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	planningRepo := repository.NewPlanningRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	clientRepo := repository.NewClientRepository(db)
	technicianRepo := repository.NewTechnicianRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	jobRepo := repository.NewJobRepository(db)
	sheetRepo := repository.NewSheetRepository(db)

	refs := service.NewReferenceCache(redisClient, cfg.Calendar.ReferenceCacheTTL, metricsSvc,
		clientRepo, technicianRepo, vehicleRepo, jobRepo, sheetRepo, logr)
	availabilitySvc := service.NewAvailabilityService(planningRepo, technicianRepo, vehicleRepo, logr)
	lifecycleSvc := service.NewLifecycleService(planningRepo, logr)
	calendarSvc := service.NewCalendarService(planningRepo, interventionRepo, refs, logr)
	planningSvc := service.NewPlanningService(planningRepo, availabilitySvc, refs, validate, logr, service.PlanningOptions{
		EnforceConflicts: cfg.Planning.EnforceConflicts,
		MaxOccurrences:   cfg.Planning.MaxOccurrences,
	})

	planningHandler := handler.NewPlanningHandler(planningSvc, lifecycleSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	clientHandler := handler.NewClientHandler(clientRepo)
	technicianHandler := handler.NewTechnicianHandler(technicianRepo)
	vehicleHandler := handler.NewVehicleHandler(vehicleRepo)
	jobHandler := handler.NewJobHandler(jobRepo)
	sheetHandler := handler.NewSheetHandler(sheetRepo)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/plannings", planningHandler.List)
		api.POST("/plannings", planningHandler.Create)
		api.GET("/plannings/:id", planningHandler.Get)
		api.PUT("/plannings/:id", planningHandler.Update)
		api.DELETE("/plannings/:id", planningHandler.Delete)
		api.PATCH("/plannings/:id/status", planningHandler.ChangeStatus)

		api.GET("/calendar/plannings", calendarHandler.Plannings)
		api.GET("/calendar/interventions", calendarHandler.Interventions)

		api.GET("/availability/technicians/:id", availabilityHandler.Technician)
		api.GET("/availability/vehicles/:id", availabilityHandler.Vehicle)

		api.GET("/clients", clientHandler.List)
		api.GET("/clients/:id", clientHandler.Get)
		api.GET("/technicians", technicianHandler.List)
		api.GET("/technicians/:id", technicianHandler.Get)
		api.GET("/vehicles", vehicleHandler.List)
		api.GET("/vehicles/:id", vehicleHandler.Get)
		api.GET("/jobs", jobHandler.List)
		api.GET("/jobs/:id", jobHandler.Get)
		api.GET("/sheets", sheetHandler.List)
		api.GET("/sheets/:id", sheetHandler.Get)
	}

	r.NoRoute(func(c *gin.Context) {
		response.JSON(c, http.StatusNotFound, gin.H{"message": "route not found"}, nil)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
