package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/services"
)

// PerformanceHandler handles the performance engine endpoints.
type PerformanceHandler struct {
	performanceService services.PerformanceServicer
	now                func() time.Time
}

// NewPerformanceHandler creates a new PerformanceHandler.
func NewPerformanceHandler(performanceService services.PerformanceServicer) *PerformanceHandler {
	return &PerformanceHandler{performanceService: performanceService, now: time.Now}
}

// RecomputeRequest sets the last day of the recomputed calendar. Defaults to today.
type RecomputeRequest struct {
	AsOf string `json:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

func (h *PerformanceHandler) asOf(raw string) (time.Time, error) {
	if raw == "" {
		return models.Day(h.now()), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid as_of, expected YYYY-MM-DD")
	}
	return d, nil
}

// Recompute handles rebuilding the stored metrics.
// @Summary     Recompute performance
// @Description Rebuild every daily metric from the ledger and the market cache, replacing the stored facts of the portfolio
// @Tags        performance
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RecomputeRequest false "Recompute options"
// @Success     200 {object} services.RecomputeResult "Recompute summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     422 {object} ErrorResponse "No transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /performance/recompute [post]
func (h *PerformanceHandler) Recompute(c *gin.Context) {
	var req RecomputeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}
	asOf, err := h.asOf(req.AsOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.performanceService.Recompute(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPerformance handles reading stored metric facts.
// @Summary     Get performance facts
// @Description Get stored daily metric facts sorted by portfolio, ticker, metric type and date
// @Tags        performance
// @Produce     json
// @Param       portfolio   query string false "Portfolio name"
// @Param       ticker      query string false "Ticker (_PORTFOLIO for the aggregate)"
// @Param       metric_type query string false "Metric type"
// @Param       from        query string false "Start date (YYYY-MM-DD)"
// @Param       to          query string false "End date (YYYY-MM-DD)"
// @Success     200 {array}  models.PerformanceRow "Metric facts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /performance [get]
func (h *PerformanceHandler) GetPerformance(c *gin.Context) {
	filter := services.PerformanceFilter{
		Portfolio: c.Query("portfolio"),
		Ticker:    optionalQuery(c, "ticker"),
	}
	if mt := c.Query("metric_type"); mt != "" {
		metric := models.MetricType(mt)
		if !metric.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown metric_type "+mt))
			return
		}
		filter.MetricType = &metric
	}
	var err error
	if filter.FromDate, err = parseDateQuery(c, "from"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ToDate, err = parseDateQuery(c, "to"); err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.performanceService.GetPerformance(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetSummary handles the live portfolio summary.
// @Summary     Portfolio summary
// @Description Compute positions, valuation, returns and risk statistics as of a date without persisting anything
// @Tags        performance
// @Produce     json
// @Param       as_of query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success     200 {object} services.Summary "Portfolio summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "No transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /performance/summary [get]
func (h *PerformanceHandler) GetSummary(c *gin.Context) {
	asOf, err := h.asOf(c.Query("as_of"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	sum, err := h.performanceService.Summary(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sum)
}
