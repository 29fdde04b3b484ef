package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
)

// RunHandler exposes the pipeline run history.
type RunHandler struct {
	runLogService services.RunLogServicer
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runLogService services.RunLogServicer) *RunHandler {
	return &RunHandler{runLogService: runLogService}
}

var runKinds = map[models.RunKind]bool{
	models.RunIngest:    true,
	models.RunRefresh:   true,
	models.RunRecompute: true,
	models.RunReconcile: true,
	models.RunImportRaw: true,
}

// ListRuns handles listing recorded runs.
// @Summary     List runs
// @Description Get a paginated list of pipeline runs, most recent first
// @Tags        runs
// @Produce     json
// @Param       kind      query string false "Run kind (ingest, refresh, recompute, reconcile, import_raw)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RunLog] "Paginated runs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /runs [get]
func (h *RunHandler) ListRuns(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var kind *models.RunKind
	if raw := c.Query("kind"); raw != "" {
		k := models.RunKind(raw)
		if !runKinds[k] {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown run kind "+raw))
			return
		}
		kind = &k
	}

	result, err := h.runLogService.List(page, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
