package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"devtracker/config"
	"devtracker/internal/metrics"
	"devtracker/internal/service"
	"devtracker/pkg/auth"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	services *service.Services
	tokens   *auth.TokenManager
	logger   *zap.Logger
	config   *config.Config
	checks   map[string]HealthCheck
	limiters *limiterStore
}

func NewHandler(
	services *service.Services,
	tokens *auth.TokenManager,
	logger *zap.Logger,
	config *config.Config,
	checks map[string]HealthCheck,
) *Handler {
	return &Handler{
		services: services,
		tokens:   tokens,
		logger:   logger,
		config:   config,
		checks:   checks,
		limiters: newLimiterStore(config.HTTP.RequestsPerMinute, config.HTTP.Burst),
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(h.requestIDMiddleware())
	router.Use(h.loggerMiddleware())
	router.Use(h.corsMiddleware())

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	api := router.Group("/api/v1", h.rateLimitMiddleware(), h.identityMiddleware())
	{
		schedules := api.Group("/schedules")
		{
			schedules.GET("", h.getSchedules)
			schedules.POST("", h.createSchedule)
			schedules.PUT("/:id", h.updateSchedule)
			schedules.DELETE("/:id", h.deleteSchedule)
		}

		timeOff := api.Group("/time-off")
		{
			timeOff.GET("", h.getTimeOff)
			timeOff.POST("", h.createTimeOff)
			timeOff.PUT("/:id", h.updateTimeOff)
			timeOff.DELETE("/:id", h.deleteTimeOff)
		}

		api.GET("/slots", h.getSlots)

		appointments := api.Group("/appointments")
		{
			appointments.GET("", h.getAppointments)
			appointments.POST("", h.createAppointment)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PUT("/:id", h.updateAppointment)
			appointments.DELETE("/:id", h.deleteAppointment)
			appointments.POST("/:id/cancel", h.cancelAppointment)
		}

		patients := api.Group("/patients")
		{
			patients.GET("", h.getPatients)
			patients.POST("", h.createPatient)
			patients.GET("/:id", h.getPatientByID)
			patients.PUT("/:id", h.updatePatient)
			patients.DELETE("/:id", h.deletePatient)
		}
	}
}

// @Summary Health check
// @Description Pings Postgres and, when configured, redis
// @Tags Service
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body[name] = "unavailable"
			continue
		}
		body[name] = "ok"
	}

	c.JSON(status, body)
}
