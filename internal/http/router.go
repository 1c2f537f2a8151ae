package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pericialab/backend/internal/config"
	"github.com/pericialab/backend/internal/db"
	"github.com/pericialab/backend/internal/extract"
	"github.com/pericialab/backend/internal/fn"
	"github.com/pericialab/backend/internal/http/handlers"
	"github.com/pericialab/backend/internal/http/middleware"
	"github.com/pericialab/backend/internal/report"
	"github.com/pericialab/backend/internal/storage"

	_ "github.com/pericialab/backend/docs"
)

func Router(cfg config.Config, store *db.Store, bucket *storage.Bucket, functions *fn.Client, remote *extract.Remote, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-User-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Bucket:    bucket,
		Functions: functions,
		Remote:    remote,
		Generator: &report.Generator{
			Data:      store,
			Functions: functions,
			Logger:    logger,
		},
		Validator:      validator.New(),
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadSizeMB << 20,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.Use(middleware.UserScope())
	{
		api.GET("/processes", h.ProcessList)
		api.POST("/processes", h.ProcessCreate)
		api.GET("/processes/search", h.ProcessSearch)
		api.GET("/processes/:id", h.ProcessGet)
		api.PUT("/processes/:id", h.ProcessUpdate)
		api.DELETE("/processes/:id", h.ProcessDelete)
		api.GET("/processes/:id/validate", h.ProcessValidate)

		api.POST("/processes/:id/documents", h.DocumentUpload)
		api.GET("/processes/:id/documents", h.DocumentList)
		api.DELETE("/processes/:id/documents/:docId", h.DocumentDelete)

		api.POST("/processes/:id/reports", h.ReportGenerate)
		api.GET("/processes/:id/reports", h.ReportHistory)

		api.POST("/processes/:id/questionnaire", h.QuestionnaireUpsert)
		api.PUT("/processes/:id/questionnaire", h.QuestionnaireReplace)
		api.GET("/processes/:id/questionnaire", h.QuestionnaireList)

		api.POST("/processes/:id/risk-agents", h.RiskAgentCreate)
		api.GET("/processes/:id/risk-agents", h.RiskAgentList)
		api.DELETE("/processes/:id/risk-agents/:agentId", h.RiskAgentDelete)

		api.POST("/processes/:id/access", h.AccessGrant)
		api.GET("/processes/:id/access", h.AccessList)
		api.DELETE("/processes/:id/access/:cpf", h.AccessRevoke)

		api.GET("/processes/:id/schedule.ics", h.ScheduleICS)
		api.GET("/processes/:id/schedule/links", h.ScheduleLinks)
		api.POST("/processes/:id/schedule/email", h.ScheduleEmail)

		api.POST("/extract", h.Extract)
		api.POST("/proofread", h.Proofread)
		api.POST("/transcribe", h.Transcribe)
		api.POST("/ocr", h.OCRDocument)

		api.GET("/notifications", h.NotificationsList)
		api.POST("/notifications/:notificationId/read", h.NotificationRead)

		api.GET("/statistics", h.Statistics)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/users", h.AdminUserCreate)
		admin.GET("/users", h.AdminUserList)
		admin.DELETE("/users/:userId", h.AdminUserDelete)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
