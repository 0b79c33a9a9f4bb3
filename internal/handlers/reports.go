package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
)

type ReportHandler struct {
	reports store.ReportStore
}

func NewReportHandler(reports store.ReportStore) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// CreateReport files a report against an answer, user or community. Pure
// append in pending state; duplicates are allowed, review is manual.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.TargetType == "" || input.TargetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_type and target_id are required"})
		return
	}
	if !models.ValidReportTarget(input.TargetType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_type"})
		return
	}

	report := models.Report{
		ReporterID: userID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		Reason:     strings.TrimSpace(input.Reason),
		Status:     models.ReportStatusPending,
	}

	if err := h.reports.Insert(&report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}
