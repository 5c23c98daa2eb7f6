package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/response"
	"github.com/stemsi/voxmind-backend/internal/service"
)

// QuizHandler serves the quiz list and launches quiz sessions.
type QuizHandler struct {
	catalogService *service.CatalogService
	launchService  *service.LaunchService
	log            zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(catalogService *service.CatalogService, launchService *service.LaunchService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		catalogService: catalogService,
		launchService:  launchService,
		log:            log.With().Str("component", "quiz_handler").Logger(),
	}
}

// ListQuizzes godoc
// GET /api/v1/quizzes
// Returns one row per valid quiz in store order.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	items, err := h.catalogService.ListItems(c.Request.Context())
	if err != nil {
		h.failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": items})
}

// RefreshCatalog godoc
// POST /api/v1/quizzes/refresh
// Refetches the quiz list from the realtime database.
func (h *QuizHandler) RefreshCatalog(c *gin.Context) {
	quizzes, err := h.catalogService.Refresh(c.Request.Context())
	if err != nil {
		h.failCatalog(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(quizzes)})
}

// LaunchQuiz godoc
// POST /api/v1/quizzes/:quiz_id/launch
// Stages the quiz for a new session and returns the token its screen
// connects with.
func (h *QuizHandler) LaunchQuiz(c *gin.Context) {
	quizID := c.Param("quiz_id")
	if quizID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	launch, err := h.launchService.Launch(c.Request.Context(), quizID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		case errors.Is(err, service.ErrCatalogUnavailable):
			h.failCatalog(c, err)
		default:
			h.log.Error().Err(err).Str("quiz_id", quizID).Msg("Launch failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, launch)
}

func (h *QuizHandler) failCatalog(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCatalogUnavailable) {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrCatalogUnavailable)
		return
	}
	h.log.Error().Err(err).Msg("Catalog request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
