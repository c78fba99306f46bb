package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflowmonk/internal/pkg/response"
)

// ErrorLogger logs every request, recovers from panics and records handler
// errors attached with c.Error.
func ErrorLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Error("request_panic", append(requestFields(c, start), zap.Error(err), zap.ByteString("stack", debug.Stack()))...)

				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				return
			}

			for _, err := range c.Errors {
				fields := append(requestFields(c, start), zap.Error(err.Err), zap.Uint64("type", uint64(err.Type)))
				if err.Meta != nil {
					fields = append(fields, zap.Any("meta", err.Meta))
				}
				log.Warn("request_error", fields...)
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				log.Error("request", requestFields(c, start)...)
			default:
				log.Info("request", requestFields(c, start)...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) []zap.Field {
	return []zap.Field{
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", c.GetString(RequestIDKey)),
		zap.Duration("latency", time.Since(start)),
	}
}
