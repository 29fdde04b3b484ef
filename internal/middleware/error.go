package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
)

func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			RequestLogger(c).Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{"code": appErr.Code, "message": appErr.Message},
		})
		return
	}

	RequestLogger(c).Errorw("unexpected error", "error", err.Error())
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorHandler converts errors attached with c.Error into the JSON error
// envelope, unless a response was already written. A panic in a handler is
// logged and answered as an internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				RequestLogger(c).Errorw("panic", "recovered", fmt.Sprint(rec))
				c.Abort()
				writeError(c, fmt.Errorf("panic: %v", rec))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, c.Errors.Last().Err)
	}
}
