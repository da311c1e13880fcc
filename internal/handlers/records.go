package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/export"
	"invoice-prize-checker-go/internal/models"
)

// GetRecords returns stored invoice records, newest first.
func (h *Handlers) GetRecords(c *gin.Context) {
	records, err := h.repo.GetRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch records",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if records == nil {
		records = []models.InvoiceRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// SaveRecords stores a batch of invoice records (manual entry or an OCR
// layer upstream of this service).
func (h *Handlers) SaveRecords(c *gin.Context) {
	var req models.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}
	if err := h.repo.SaveRecords(req.Records); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to save records",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Status(http.StatusCreated)
}

// ClearRecords deletes all stored invoice records.
func (h *Handlers) ClearRecords(c *gin.Context) {
	if err := h.repo.ClearRecords(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to clear records",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportRecords downloads the stored records as a UTF-8 BOM CSV file.
func (h *Handlers) ExportRecords(c *gin.Context) {
	records, err := h.repo.GetRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch records",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	filename := fmt.Sprintf("invoices_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(c.Writer, records); err != nil {
		logrus.Errorf("Failed to export records: %v", err)
	}
}
