package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/ledger"
	"ledgerly/internal/models"
	"ledgerly/internal/services"
)

// --- mock performance service ---

type mockPerformanceService struct {
	recomputeFn      func(asOf time.Time) (*services.RecomputeResult, error)
	getPerformanceFn func(filter services.PerformanceFilter) ([]models.PerformanceRow, error)
	summaryFn        func(asOf time.Time) (*services.Summary, error)
}

var _ services.PerformanceServicer = (*mockPerformanceService)(nil)

func (m *mockPerformanceService) LoadSnapshot(_ time.Time) (*ledger.Snapshot, error) {
	return &ledger.Snapshot{}, nil
}

func (m *mockPerformanceService) Recompute(asOf time.Time) (*services.RecomputeResult, error) {
	if m.recomputeFn != nil {
		return m.recomputeFn(asOf)
	}
	return &services.RecomputeResult{}, nil
}

func (m *mockPerformanceService) GetPerformance(filter services.PerformanceFilter) ([]models.PerformanceRow, error) {
	if m.getPerformanceFn != nil {
		return m.getPerformanceFn(filter)
	}
	return []models.PerformanceRow{}, nil
}

func (m *mockPerformanceService) Summary(asOf time.Time) (*services.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(asOf)
	}
	return &services.Summary{}, nil
}

func setupPerformanceRouter(handler *PerformanceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/performance/recompute", handler.Recompute)
	r.GET("/performance", handler.GetPerformance)
	r.GET("/performance/summary", handler.GetSummary)
	return r
}

func fixedPerformanceHandler(svc services.PerformanceServicer) *PerformanceHandler {
	h := NewPerformanceHandler(svc)
	h.now = func() time.Time { return time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC) }
	return h
}

// --- tests ---

func TestPerformanceHandler_Recompute(t *testing.T) {
	t.Run("uses_body_as_of", func(t *testing.T) {
		var got time.Time
		svc := &mockPerformanceService{
			recomputeFn: func(asOf time.Time) (*services.RecomputeResult, error) {
				got = asOf
				return &services.RecomputeResult{Portfolio: "main", Rows: 365, Pruned: 2}, nil
			},
		}
		r := setupPerformanceRouter(fixedPerformanceHandler(svc))

		rec := doRequest(r, "POST", "/performance/recompute", `{"as_of":"2023-12-31"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Format("2006-01-02") != "2023-12-31" {
			t.Errorf("expected as_of 2023-12-31, got %v", got)
		}
		result := parseJSON(t, rec)
		if result["rows"].(float64) != 365 || result["pruned"].(float64) != 2 {
			t.Errorf("unexpected result %v", result)
		}
	})

	t.Run("defaults_to_today", func(t *testing.T) {
		var got time.Time
		svc := &mockPerformanceService{
			recomputeFn: func(asOf time.Time) (*services.RecomputeResult, error) {
				got = asOf
				return &services.RecomputeResult{}, nil
			},
		}
		r := setupPerformanceRouter(fixedPerformanceHandler(svc))

		rec := doRequest(r, "POST", "/performance/recompute", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected truncated today, got %v", got)
		}
	})

	t.Run("returns_400_bad_as_of", func(t *testing.T) {
		r := setupPerformanceRouter(fixedPerformanceHandler(&mockPerformanceService{}))

		rec := doRequest(r, "POST", "/performance/recompute", `{"as_of":"31/12/2023"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns_422_no_transactions", func(t *testing.T) {
		svc := &mockPerformanceService{
			recomputeFn: func(_ time.Time) (*services.RecomputeResult, error) {
				return nil, apperrors.ErrNoTransactions
			},
		}
		r := setupPerformanceRouter(fixedPerformanceHandler(svc))

		rec := doRequest(r, "POST", "/performance/recompute", "")

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_TRANSACTIONS")
	})
}

func TestPerformanceHandler_GetPerformance(t *testing.T) {
	t.Run("passes_filters_and_renders_null", func(t *testing.T) {
		var got services.PerformanceFilter
		v := 198.0
		svc := &mockPerformanceService{
			getPerformanceFn: func(filter services.PerformanceFilter) ([]models.PerformanceRow, error) {
				got = filter
				return []models.PerformanceRow{
					{Ticker: "AAPL", MetricType: models.MetricRealizedGainCumulative, PortfolioName: "main", Value: &v},
					{Ticker: "AAPL", MetricType: models.MetricRealizedGainCumulative, PortfolioName: "main"},
				}, nil
			},
		}
		r := setupPerformanceRouter(fixedPerformanceHandler(svc))

		rec := doRequest(r, "GET", "/performance?portfolio=main&ticker=AAPL&metric_type=realized_gain_cumulative&from=2023-01-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Portfolio != "main" || got.Ticker == nil || *got.Ticker != "AAPL" {
			t.Errorf("unexpected filter %+v", got)
		}
		if got.MetricType == nil || *got.MetricType != models.MetricRealizedGainCumulative {
			t.Errorf("expected metric filter")
		}
		if got.FromDate == nil || got.ToDate != nil {
			t.Errorf("unexpected date bounds %v %v", got.FromDate, got.ToDate)
		}
		rows := parseJSONArray(t, rec)
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[1].(map[string]interface{})["value"] != nil {
			t.Error("expected null value for undefined metric")
		}
	})

	t.Run("returns_400_unknown_metric", func(t *testing.T) {
		r := setupPerformanceRouter(fixedPerformanceHandler(&mockPerformanceService{}))

		rec := doRequest(r, "GET", "/performance?metric_type=alpha", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestPerformanceHandler_GetSummary(t *testing.T) {
	t.Run("returns_200", func(t *testing.T) {
		var got time.Time
		svc := &mockPerformanceService{
			summaryFn: func(asOf time.Time) (*services.Summary, error) {
				got = asOf
				return &services.Summary{
					Portfolio:      "main",
					ValuationGross: ledger.Known(1200),
					Percentage:     ledger.Unavailable(),
					Positions:      []services.Position{{Ticker: "AAPL", Status: "flat", RealizedGain: 198}},
				}, nil
			},
		}
		r := setupPerformanceRouter(fixedPerformanceHandler(svc))

		rec := doRequest(r, "GET", "/performance/summary?as_of=2023-07-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Format("2006-01-02") != "2023-07-01" {
			t.Errorf("unexpected as_of %v", got)
		}
		result := parseJSON(t, rec)
		if result["valuation_gross"].(float64) != 1200 {
			t.Errorf("expected valuation_gross=1200, got %v", result["valuation_gross"])
		}
		if result["twr_percentage"] != nil {
			t.Errorf("expected null twr_percentage, got %v", result["twr_percentage"])
		}
		positions := result["positions"].([]interface{})
		if positions[0].(map[string]interface{})["status"] != "flat" {
			t.Errorf("unexpected position %v", positions[0])
		}
	})

	t.Run("returns_400_bad_as_of", func(t *testing.T) {
		r := setupPerformanceRouter(fixedPerformanceHandler(&mockPerformanceService{}))

		rec := doRequest(r, "GET", "/performance/summary?as_of=soon", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
