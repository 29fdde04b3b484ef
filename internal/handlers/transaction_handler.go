package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
)

// TransactionHandler handles the transaction ledger endpoints.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// IngestRequest is a batch of parsed brokerage rows. Rows are validated one
// by one so a bad row never rejects the batch.
type IngestRequest struct {
	Transactions []services.TransactionInput `json:"transactions" binding:"required,min=1"`
}

// Ingest handles appending a batch of transactions.
// @Summary     Ingest transactions
// @Description Append parsed brokerage rows. Duplicates are skipped and counted; invalid rows are reported by index.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body IngestRequest true "Transactions"
// @Success     200 {object} services.IngestResult "Ingestion summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ingest [post]
func (h *TransactionHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.transactionService.Ingest(req.Transactions)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListTransactions handles listing the ledger.
// @Summary     List transactions
// @Description Get a paginated, chronological list of transactions
// @Tags        transactions
// @Produce     json
// @Param       ticker    query string false "Ticker"
// @Param       operation query string false "Operation kind"
// @Param       from      query string false "Start date (YYYY-MM-DD)"
// @Param       to        query string false "End date (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{Ticker: optionalQuery(c, "ticker")}
	if op := c.Query("operation"); op != "" {
		kind := models.OperationKind(op)
		if !kind.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidOperationKind, "unsupported operation "+op))
			return
		}
		filter.Operation = &kind
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

	result, err := h.transactionService.ListTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
