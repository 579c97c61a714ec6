package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dlsms/dlsms-backend/internal/config"
	"github.com/dlsms/dlsms-backend/internal/metrics"
	"github.com/dlsms/dlsms-backend/internal/middleware"
	"github.com/dlsms/dlsms-backend/internal/response"
	ws "github.com/dlsms/dlsms-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
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

// WSHandler streams classroom events to connected members.
type WSHandler struct {
	rdb              *redis.Client
	classroomService ClassroomService
	log              zerolog.Logger
	upgrader         websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, classroomService ClassroomService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:              rdb,
		classroomService: classroomService,
		log:              log.With().Str("component", "ws_handler").Logger(),
		upgrader:         buildUpgrader(allowedOrigins),
	}
}

// ClassroomStream godoc
// WS /ws/classrooms/:id?token=...
// Upgrades to a WebSocket for the classroom owner or an enrolled student and
// relays events published on the classroom's Redis channel.
func (h *WSHandler) ClassroomStream(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.classroomService.Authorize(c.Request.Context(), principal, classroomID); err != nil {
		writeError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("user_id", principal.ID.String()).
		Str("role", string(principal.Role)).
		Str("classroom_id", classroomID.String()).
		Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.ClassroomEventsChannel(classroomID.String()))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "stream unavailable")
		return
	}

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()
	wsLog.Info().Msg("Member connected")

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, ClassroomID: classroomID}); err != nil {
		return
	}

	// gorilla allows one concurrent writer, so the reader only signals pongs.
	pongs := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, pongs, cancel)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Connection closed")
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Relay failed")
				return
			}
		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client messages until the connection drops.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, pongs chan<- struct{}, cancel context.CancelFunc) {
	defer cancel()
	ws.PrepareRead(conn)

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
			case pongs <- struct{}{}:
			default:
			}
		default:
			wsLog.Debug().Str("action", string(msg.Action)).Msg("Ignoring unknown action")
		}
	}
}
