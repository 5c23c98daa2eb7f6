package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/response"
	"github.com/stemsi/voxmind-backend/internal/service"
)

// ResultHandler serves persisted quiz results.
type ResultHandler struct {
	resultService *service.ResultService
	log           zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
		log:           log.With().Str("component", "result_handler").Logger(),
	}
}

// ListResults godoc
// GET /api/v1/quizzes/:quiz_id/results?limit=
func (h *ResultHandler) ListResults(c *gin.Context) {
	quizID := c.Param("quiz_id")
	if quizID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"limit": "limit must be a number"})
		return
	}

	results, err := h.resultService.ListByQuiz(c.Request.Context(), quizID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("quiz_id", quizID).Msg("List results failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ResultSummary godoc
// GET /api/v1/quizzes/:quiz_id/results/summary
func (h *ResultHandler) ResultSummary(c *gin.Context) {
	quizID := c.Param("quiz_id")
	if quizID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.resultService.Summary(c.Request.Context(), quizID)
	if err != nil {
		h.log.Error().Err(err).Str("quiz_id", quizID).Msg("Result summary failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
