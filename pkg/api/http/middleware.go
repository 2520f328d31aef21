package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/23f3001208/iris-classifier/internal/application/classifier"
	"github.com/23f3001208/iris-classifier/pkg/ports"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HeaderProcessTime carries the request handling time in milliseconds
const HeaderProcessTime = "X-Process-Time-ms"

// timingWriter stamps the process time header right before the response
// header is sent
type timingWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timingWriter) stamp() {
	if w.stamped || w.ResponseWriter.Written() {
		return
	}
	w.stamped = true
	w.Header().Set(HeaderProcessTime, fmt.Sprintf("%.2f", classifier.RoundMillis(time.Since(w.start))))
}

func (w *timingWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timingWriter) Write(data []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(data)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

func (w *timingWriter) Flush() {
	w.stamp()
	w.ResponseWriter.Flush()
}

// processTime adds the X-Process-Time-ms header to every response. It must
// be the outermost middleware.
func processTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		tw := &timingWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Writer = tw

		c.Next()

		// Responses without a body are written by gin after this returns
		tw.stamp()
	}
}

// recoverer is the global exception handler: it recovers panics and handles
// errors that handlers attached to the context without responding
func (s *Server) recoverer() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if r == http.ErrAbortHandler {
					panic(r)
				}
				s.handleUnhandled(c, fmt.Errorf("panic: %v", r))
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			s.handleUnhandled(c, c.Errors.Last().Err)
		}
	}
}

// requestMetrics records every request in the metrics collector
func requestMetrics(metrics ports.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}
