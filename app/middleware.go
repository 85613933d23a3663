package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/remind/ctxutil"
)

// traceMiddleware reuses an incoming X-Trace-ID or assigns a new one and
// echoes it on the response.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		if incoming := c.GetHeader(ctxutil.TraceIDHeader); incoming != "" {
			ctx = ctxutil.SetTraceID(ctx, incoming)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(ctxutil.TraceIDHeader, traceID)
		c.Next()
	}
}

// corsMiddleware allows requests from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+ctxutil.TraceIDHeader)
		h.Set("Access-Control-Expose-Headers", ctxutil.TraceIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// loggerMiddleware creates a Gin middleware for request logging.
func (a *App) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		a.logger.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}
