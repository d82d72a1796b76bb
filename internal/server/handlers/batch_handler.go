package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	service "github.com/mamadbah2/hatchery/internal/service/batches"
	"github.com/mamadbah2/hatchery/internal/service/reporting"
)

// SummaryProvider computes hatch-outcome aggregates for a period.
type SummaryProvider interface {
	Summarize(start, end time.Time) reporting.Summary
}

// BatchHandler adapts the batch service to HTTP.
type BatchHandler struct {
	svc     service.BatchService
	reports SummaryProvider
	logger  *zap.Logger
}

// NewBatchHandler constructs the HTTP handler adapter.
func NewBatchHandler(svc service.BatchService, reports SummaryProvider, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{svc: svc, reports: reports, logger: logger}
}

type createBatchRequest struct {
	Name       string `json:"name" binding:"required"`
	IntakeDate string `json:"intake_date" binding:"required"`
	EggCount   int    `json:"egg_count" binding:"required"`
}

type updateHatchedRequest struct {
	HatchedCount *int `json:"hatched_count" binding:"required"`
}

// Create registers a new incubation batch.
func (h *BatchHandler) Create(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.CreateBatch(c.Request.Context(), service.CreateBatchInput{
		Name:       req.Name,
		IntakeDate: req.IntakeDate,
		EggCount:   req.EggCount,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"batch":              result.Batch,
		"reminder_scheduled": result.ReminderScheduled,
	})
}

// UpdateHatched records the hatched count for an existing batch.
func (h *BatchHandler) UpdateHatched(c *gin.Context) {
	var req updateHatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	batch, err := h.svc.UpdateHatchedCount(c.Request.Context(), c.Param("id"), *req.HatchedCount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

// Calendar returns the date-keyed presentation view of all batches.
func (h *BatchHandler) Calendar(c *gin.Context) {
	view := h.svc.CalendarView(c.Query("selected"))
	c.JSON(http.StatusOK, view)
}

// List returns every stored batch.
func (h *BatchHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"batches": h.svc.All()})
}

// Summary aggregates hatch outcomes for an intake-date period.
func (h *BatchHandler) Summary(c *gin.Context) {
	start, err := time.Parse(models.DateLayout, c.DefaultQuery("start", "0001-01-01"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	end, err := time.Parse(models.DateLayout, c.DefaultQuery("end", "9999-12-31"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	c.JSON(http.StatusOK, h.reports.Summarize(start, end))
}

func (h *BatchHandler) respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var remoteErr *models.RemoteError

	switch {
	case errors.As(err, &validationErr):
		h.logger.Warn("request rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.Is(err, models.ErrBatchNotFound):
		h.logger.Warn("batch not found", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
	case errors.As(err, &remoteErr):
		h.logger.Error("remote api failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote batch api unavailable"})
	default:
		h.logger.Error("unexpected failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
