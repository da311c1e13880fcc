package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invoice-prize-checker-go/internal/metrics"
	"invoice-prize-checker-go/internal/repository"
	"invoice-prize-checker-go/internal/scanner"
	"invoice-prize-checker-go/internal/source"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db      *gorm.DB
	repo    *repository.Repository
	feed    *source.Feed
	scanner *scanner.Scanner
	metrics *metrics.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, repo *repository.Repository, feed *source.Feed, s *scanner.Scanner, m *metrics.Metrics) *Handlers {
	return &Handlers{db: db, repo: repo, feed: feed, scanner: s, metrics: m}
}

// SetupRoutes registers all API routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/winning-numbers", h.GetWinningNumbers)
		api.POST("/winning-numbers/refresh", h.RefreshWinningNumbers)

		api.POST("/check", h.CheckNumber)

		api.POST("/scan", h.StartScan)
		api.GET("/scan/status", h.ScanStatus)
		api.POST("/scan/cancel", h.CancelScan)

		api.GET("/history", h.GetHistory)
		api.DELETE("/history", h.ClearHistory)

		api.GET("/records", h.GetRecords)
		api.POST("/records", h.SaveRecords)
		api.DELETE("/records", h.ClearRecords)
		api.GET("/records/export", h.ExportRecords)
	}
}
