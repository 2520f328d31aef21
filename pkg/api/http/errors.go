package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/23f3001208/iris-classifier/internal/application/classifier"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client-facing error messages. Error details are only ever logged.
const (
	MessagePredictionFailed = "Prediction failed"
	MessageInternalError    = "Internal Server Error"
)

// ErrorResponse is the body of a handled server error
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// UnhandledErrorResponse is the body returned by the global exception handler
type UnhandledErrorResponse struct {
	Detail  string `json:"detail"`
	TraceID string `json:"trace_id"`
}

// ValidationErrorResponse is the body of a 422 response
type ValidationErrorResponse struct {
	Detail []ValidationIssue `json:"detail"`
}

// ValidationIssue describes one problem with the request body
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeError maps an operation error to a response
func (s *Server) writeError(c *gin.Context, err error) {
	var predErr *classifier.PredictionError

	switch {
	case errors.As(err, &predErr):
		// Already logged with its trace id by the service
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: MessagePredictionFailed})
	default:
		s.handleUnhandled(c, err)
	}
}

// handleUnhandled logs an unexpected error and responds with a generic 500
func (s *Server) handleUnhandled(c *gin.Context, err error) {
	traceID := trace.SpanContextFromContext(c.Request.Context()).TraceID().String()

	s.logger.Error("Unhandled exception",
		zap.String("event", "unhandled_exception"),
		zap.String("trace_id", traceID),
		zap.String("path", requestURL(c.Request)),
		zap.Error(err))

	if c.Writer.Written() {
		// Too late to change the response
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, UnhandledErrorResponse{
		Detail:  MessageInternalError,
		TraceID: traceID,
	})
}

// validationIssues describes a request binding error
func validationIssues(err error) []ValidationIssue {
	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &fieldErrs):
		issues := make([]ValidationIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issue := ValidationIssue{
				Loc:  []string{"body", fe.Field()},
				Msg:  fe.Error(),
				Type: fe.Tag(),
			}
			if fe.Tag() == "required" {
				issue.Msg = "Field required"
				issue.Type = "missing"
			}
			issues = append(issues, issue)
		}
		return issues

	case errors.As(err, &typeErr) && typeErr.Field == "":
		return []ValidationIssue{{
			Loc:  []string{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}

	case errors.As(err, &typeErr):
		return []ValidationIssue{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  "Input should be a valid number",
			Type: "float_type",
		}}

	case errors.Is(err, io.EOF):
		return []ValidationIssue{{
			Loc:  []string{"body"},
			Msg:  "Field required",
			Type: "missing",
		}}

	default:
		return []ValidationIssue{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}
	}
}

// requestURL reconstructs the absolute URL of a request
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
