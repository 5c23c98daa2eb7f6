package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/middleware"
	"github.com/stemsi/voxmind-backend/internal/response"
	"github.com/stemsi/voxmind-backend/internal/service"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ShakeSettings tunes the per-screen shake detector.
type ShakeSettings struct {
	Threshold float64
	Debounce  time.Duration
}

// WSHandler serves the quiz screen over WebSocket.
type WSHandler struct {
	launchService *service.LaunchService
	resultService *service.ResultService
	shake         ShakeSettings
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(launchService *service.LaunchService, resultService *service.ResultService, shake ShakeSettings, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		launchService: launchService,
		resultService: resultService,
		shake:         shake,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/session/stream?token=
// Opens the quiz screen for a launched session. The launch payload is taken
// before the upgrade, so a session token opens at most one screen.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := claims.SessionID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	launch, err := h.launchService.Consume(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrLaunchNotFound) {
			response.Fail(c, http.StatusConflict, response.ErrSessionUnavailable)
			return
		}
		h.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("Consume launch failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	screenLog := h.log.With().
		Str("session_id", launch.SessionID.String()).
		Str("quiz_id", launch.QuizID).
		Logger()

	screenLog.Info().Msg("Quiz screen opened")
	newScreen(conn, launch, h.resultService, h.shake, screenLog).run(c.Request.Context())
	screenLog.Info().Msg("Quiz screen closed")
}
