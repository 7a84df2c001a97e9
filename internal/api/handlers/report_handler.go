package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codeon/stocklens/internal/report"
	"github.com/codeon/stocklens/internal/storage"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	assembler *report.Assembler
	store     storage.ObjectStorage
}

func NewReportHandler(assembler *report.Assembler, store storage.ObjectStorage) *ReportHandler {
	return &ReportHandler{assembler: assembler, store: store}
}

// ListExports returns the previously exported report files.
func (h *ReportHandler) ListExports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report storage is not configured"})
		return
	}

	objects, err := h.store.ListObjects(c.Request.Context(), "reports/")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list exports", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exports": objects})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	typ, err := report.ParseType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rpt, err := h.assembler.Assemble(c.Request.Context(), typ, parseProductFilter(c), parseTrendMonths(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rpt)
}

// ExportReport assembles a report, renders its items as CSV and uploads the
// file to object storage.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	typ, err := report.ParseType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report storage is not configured"})
		return
	}

	rpt, err := h.assembler.Assemble(c.Request.Context(), typ, parseProductFilter(c), parseTrendMonths(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble report", "details": err.Error()})
		return
	}

	payload, err := report.EncodeCSV(rpt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode report", "details": err.Error()})
		return
	}

	key := fmt.Sprintf("reports/%s-%s.csv", typ, time.Now().UTC().Format("20060102-150405"))
	if err := h.store.UploadObject(c.Request.Context(), key, "text/csv", payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "items": len(rpt.Items)})
}
