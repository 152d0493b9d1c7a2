package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lumelearn/player-backend/internal/middleware"
	"github.com/lumelearn/player-backend/internal/player"
	"github.com/lumelearn/player-backend/internal/service"
	ws "github.com/lumelearn/player-backend/internal/websocket"
)

// statusPollInterval controls how often session statuses are re-resolved
// for connected clients.
const statusPollInterval = 15 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
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

// WSHandler streams live-session status transitions to the player UI so
// "join" buttons light up without polling.
type WSHandler struct {
	playerService *service.PlayerService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(playerService *service.PlayerService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		playerService: playerService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// SessionStatusStream godoc
// WS /ws/v1/player/:session_id/sessions
// Pushes the resolved live-session list on connect and again whenever any
// session crosses a status boundary.
func (h *WSHandler) SessionStatusStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	ps, err := h.playerService.Get(sessionID, claims.Learner())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("learner_id", claims.Learner()).
		Str("session_id", sessionID.String()).
		Logger()
	wsLog.Info().Msg("Learner connected")

	// All writes happen on this goroutine; the read loop forwards pings
	// over a channel since the connection does not allow concurrent writes.
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, done, pings)

	// Initial push, then push again only when the fingerprint changes.
	resolved := ps.Player.Sessions()
	if err := ws.WriteTyped(conn, sessionsResponse(resolved)); err != nil {
		return
	}
	lastFingerprint := statusFingerprint(resolved)

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Connection closed")
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case <-ticker.C:
			ps.Player.Touch()
			resolved = ps.Player.Sessions()
			fp := statusFingerprint(resolved)
			if fp == lastFingerprint {
				continue
			}
			lastFingerprint = fp
			if err := ws.WriteTyped(conn, sessionsResponse(resolved)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		}
	}
}

// readLoop drains client messages, forwarding pings to the writer, and
// signals done when the connection drops.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, done chan struct{}, pings chan struct{}) {
	defer close(done)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		switch msg.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		}
	}
}

func sessionsResponse(resolved []player.ResolvedSession) ws.SessionsResponse {
	views := make([]ws.SessionView, 0, len(resolved))
	for _, rs := range resolved {
		views = append(views, ws.SessionView{
			ID:       rs.ID.String(),
			Title:    rs.Title,
			Status:   string(rs.Status),
			Joinable: rs.Joinable,
			JoinURL:  rs.JoinURL,
			StartsIn: rs.StartsIn,
		})
	}
	return ws.SessionsResponse{Event: ws.EventSessions, Sessions: views}
}

func statusFingerprint(resolved []player.ResolvedSession) string {
	var b strings.Builder
	for _, rs := range resolved {
		b.WriteString(rs.ID.String())
		b.WriteByte(':')
		b.WriteString(string(rs.Status))
		b.WriteByte(';')
	}
	return b.String()
}
