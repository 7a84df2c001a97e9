package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/codeon/stocklens/internal/api/handlers"
	"github.com/codeon/stocklens/internal/api/middleware"
	"github.com/codeon/stocklens/internal/report"
	"github.com/codeon/stocklens/internal/service"
	"github.com/codeon/stocklens/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Analytics *service.AnalyticsService
	Reports   *report.Assembler
	Storage   storage.ObjectStorage
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Analytics != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/products", analyticsHandler.GetProducts)
				analyticsGroup.GET("/sales-trend", analyticsHandler.GetSalesTrend)
				analyticsGroup.GET("/categories", analyticsHandler.GetCategories)
				analyticsGroup.GET("/summary", analyticsHandler.GetSummary)
				analyticsGroup.GET("/thresholds", analyticsHandler.GetThresholds)
				analyticsGroup.PUT("/thresholds", analyticsHandler.UpdateThresholds)
				analyticsGroup.POST("/cache/invalidate", analyticsHandler.InvalidateCache)
			}
		}

		if services.Reports != nil {
			reportHandler := handlers.NewReportHandler(services.Reports, services.Storage)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("/exports", reportHandler.ListExports)
				reportGroup.GET("/:type", reportHandler.GetReport)
				reportGroup.POST("/:type/export", reportHandler.ExportReport)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
