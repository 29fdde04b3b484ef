package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "ledgerly/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrUnknownTicker) })
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(http.ErrBodyNotAllowed) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = c.Error(apperrors.ErrInvalidInput)
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app", http.StatusNotFound, "UNKNOWN_TICKER"},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/panic", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/written", http.StatusAccepted, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path[1:], func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				return
			}
			errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected error object in response")
			}
			if errObj["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", errObj["code"], tt.wantCode)
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/x", func(c *gin.Context) {
		if RequestLogger(c) == nil {
			t.Error("expected request logger")
		}
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", http.NoBody))

		id := rec.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("expected uuid request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("context id %q differs from header %q", rec.Body.String(), id)
		}
	})

	t.Run("reuses_inbound_id", func(t *testing.T) {
		inbound := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
		req.Header.Set("X-Request-ID", inbound)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != inbound {
			t.Errorf("expected %q, got %q", inbound, got)
		}
	})

	t.Run("replaces_malformed_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
		req.Header.Set("X-Request-ID", "not-a-uuid\n")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got == "not-a-uuid\n" {
			t.Error("expected malformed id to be replaced")
		}
	})
}
