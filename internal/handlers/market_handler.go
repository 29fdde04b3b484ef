package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/services"
)

// MarketHandler handles the market data cache endpoints.
type MarketHandler struct {
	marketService services.MarketServicer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService services.MarketServicer) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// RefreshRequest lists the tickers to refresh. An empty list refreshes every
// ticker found in the ledger.
type RefreshRequest struct {
	Tickers []string `json:"tickers"`
}

// Refresh handles refreshing cached market data from the feed.
// @Summary     Refresh market data
// @Description Fetch bars, dividends and splits incrementally for each ticker, plus the FX rates needed for conversion. Failed tickers are listed without aborting the run.
// @Tags        market
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RefreshRequest false "Tickers"
// @Success     200 {object} refresher.RunResult "Refresh summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /market/refresh [post]
func (h *MarketHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.marketService.Refresh(c.Request.Context(), req.Tickers)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPrices handles reading cached daily bars.
// @Summary     Get prices
// @Description Get the cached daily bars of a ticker
// @Tags        market
// @Produce     json
// @Param       ticker path  string true  "Ticker"
// @Param       from   query string false "Start date (YYYY-MM-DD)"
// @Param       to     query string false "End date (YYYY-MM-DD)"
// @Success     200 {array}  models.StockPrice "Daily bars"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Unknown ticker"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /market/prices/{ticker} [get]
func (h *MarketHandler) GetPrices(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}

	prices, err := h.marketService.GetPrices(c.Param("ticker"), from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prices)
}

// ListSecurities handles listing cached security profiles.
// @Summary     List securities
// @Description Get every cached security profile
// @Tags        market
// @Produce     json
// @Success     200 {array}  models.Security "Securities"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /market/securities [get]
func (h *MarketHandler) ListSecurities(c *gin.Context) {
	secs, err := h.marketService.ListSecurities()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, secs)
}
