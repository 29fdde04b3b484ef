package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ledgerly/internal/app"
	"ledgerly/internal/config"
	"ledgerly/internal/ledger"
	"ledgerly/internal/logger"
	"ledgerly/internal/testutil"
	"ledgerly/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.InitNop()
}

func call(r http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	cfg := &config.Config{
		APIKey:            "write-key",
		PortfolioName:     "main",
		ReportingCurrency: "EUR",
		RiskFreeRate:      0.025,
		FetchConcurrency:  2,
	}
	a := app.Build(db, cfg, nil, ledger.Annual)
	if err := a.ReconcileLabels(); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	testutil.CreateTestSplit(t, db, "XYZ", testutil.Date(2023, 6, 1), 2)
	r := newRouter(a)

	ingest := `{"transactions":[
		{"ticker":"XYZ","currency":"EUR","operation":"buy","date":"2023-01-01","amount":"1000","fees":"1","stock_price":"100","quantity":"10"},
		{"ticker":"XYZ","currency":"EUR","operation":"sell","date":"2023-07-01","amount":"1200","fees":"1","stock_price":"60","quantity":"20"}
	]}`

	t.Run("health", func(t *testing.T) {
		if rec := call(r, "GET", "/api/health", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("writes_require_key", func(t *testing.T) {
		rec := call(r, "POST", "/api/v1/transactions/ingest", "", ingest)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("recompute_before_ingest", func(t *testing.T) {
		rec := call(r, "POST", "/api/v1/performance/recompute", "write-key", "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("ingest_recompute_read", func(t *testing.T) {
		rec := call(r, "POST", "/api/v1/transactions/ingest", "write-key", ingest)
		if rec.Code != http.StatusOK {
			t.Fatalf("ingest: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = call(r, "POST", "/api/v1/transactions/ingest", "write-key", ingest)
		var again struct {
			Inserted   int `json:"inserted"`
			Duplicates int `json:"duplicates"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
			t.Fatalf("bad ingest body: %v", err)
		}
		if again.Inserted != 0 || again.Duplicates != 2 {
			t.Errorf("expected re-ingest to be all duplicates, got %+v", again)
		}

		rec = call(r, "POST", "/api/v1/performance/recompute", "write-key", `{"as_of":"2023-07-01"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("recompute: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = call(r, "GET", "/api/v1/performance?portfolio=main&ticker=XYZ&metric_type=realized_gain_cumulative&from=2023-07-01", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("performance: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var rows []struct {
			Value *float64 `json:"value"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("bad performance body: %v", err)
		}
		if len(rows) != 1 || rows[0].Value == nil {
			t.Fatalf("expected one defined row, got %s", rec.Body.String())
		}
		testutil.AssertFloat(t, "realized gain", *rows[0].Value, 198)

		rec = call(r, "GET", "/api/v1/runs?kind=ingest", "", "")
		var runs struct {
			TotalItems int64 `json:"total_items"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
			t.Fatalf("bad runs body: %v", err)
		}
		if runs.TotalItems != 2 {
			t.Errorf("expected 2 ingest runs, got %d", runs.TotalItems)
		}
	})

	t.Run("categories_seeded", func(t *testing.T) {
		rec := call(r, "GET", "/api/v1/categories", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"Banking"`) {
			t.Errorf("expected default labels, got %s", rec.Body.String())
		}
	})
}
