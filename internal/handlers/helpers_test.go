package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/logger"
	"ledgerly/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.InitNop()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func TestRespondWithError(t *testing.T) {
	t.Run("app_error_uses_its_status", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrUnknownTicker, "no market data for ZZZ"))
		})
		rec := doRequest(r, "GET", "/x", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "UNKNOWN_TICKER")
		if msg := result["error"].(map[string]interface{})["message"]; msg != "no market data for ZZZ" {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("plain_error_is_internal", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			respondWithError(c, http.ErrHandlerTimeout)
		})
		rec := doRequest(r, "GET", "/x", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestParsePathID(t *testing.T) {
	r := gin.New()
	r.GET("/ops/:id", func(c *gin.Context) {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	t.Run("valid", func(t *testing.T) {
		rec := doRequest(r, "GET", "/ops/42", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["id"].(float64) != 42 {
			t.Errorf("expected id 42")
		}
	})

	for _, raw := range []string{"0", "-1", "abc"} {
		t.Run("rejects_"+raw, func(t *testing.T) {
			rec := doRequest(r, "GET", "/ops/"+raw, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}
