package http

import (
	"net/http"

	"github.com/23f3001208/iris-classifier/pkg/domain"
	"github.com/gin-gonic/gin"
)

// WelcomeMessage is returned by the root endpoint
const WelcomeMessage = "Welcome to the Iris Classifier API!"

// PredictionRequest represents a prediction request. Pointers tell a
// missing field apart from a zero value.
type PredictionRequest struct {
	SepalLength *float64 `json:"sepal_length" binding:"required"`
	SepalWidth  *float64 `json:"sepal_width" binding:"required"`
	PetalLength *float64 `json:"petal_length" binding:"required"`
	PetalWidth  *float64 `json:"petal_width" binding:"required"`
}

// Features converts a bound request into model input
func (r *PredictionRequest) Features() domain.Features {
	return domain.Features{
		SepalLength: *r.SepalLength,
		SepalWidth:  *r.SepalWidth,
		PetalLength: *r.PetalLength,
		PetalWidth:  *r.PetalWidth,
	}
}

// MessageResponse is the body of the root endpoint
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the body of a passing probe
type StatusResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: WelcomeMessage})
}

// handleLiveness answers 500 with an empty body once the service is dead
func (s *Server) handleLiveness(c *gin.Context) {
	if !s.state.IsAlive() {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "alive"})
}

// handleReadiness answers 503 with an empty body until the model is loaded
func (s *Server) handleReadiness(c *gin.Context) {
	if !s.state.IsReady() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// handlePredict runs one prediction
func (s *Server) handlePredict(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: validationIssues(err)})
		return
	}

	prediction, err := s.service.Predict(c.Request.Context(), req.Features())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// handlePredictLegacy keeps the trailing-slash path working for older clients
func (s *Server) handlePredictLegacy(c *gin.Context) {
	s.handlePredict(c)
}
