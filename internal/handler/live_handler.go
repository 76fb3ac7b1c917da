package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/service"
	ws "github.com/tkrcet/attendance-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
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

// LiveHandler streams a section's attendance feed over WebSocket. Each
// connection subscribes to the section's Redis PubSub channel and relays
// every created or updated record until the client disconnects.
type LiveHandler struct {
	feed     *service.LiveFeed
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(feed *service.LiveFeed, log zerolog.Logger, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		feed:     feed,
		log:      log.With().Str("component", "live_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SectionFeed godoc
// WS /ws/v1/sections/:year/:department/:section/feed?token=...
// Upgrades to WebSocket and relays the section's live attendance events.
func (h *LiveHandler) SectionFeed(c *gin.Context) {
	year := c.Param("year")
	department := c.Param("department")
	section := c.Param("section")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.feed.Subscribe(c.Request.Context(), year, department, section)
	defer sub.Close()

	feedLog := h.log.With().
		Str("year", year).
		Str("department", department).
		Str("section", section).
		Logger()
	feedLog.Info().Msg("Feed subscriber connected")

	// Reader goroutine: answers pings and unblocks the relay loop when the
	// client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					feedLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-done:
			feedLog.Debug().Msg("Feed subscriber disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			err := ws.WriteTyped(conn, ws.RecordMessage{
				Event:   ws.EventRecord,
				Payload: []byte(msg.Payload),
			})
			if err != nil {
				feedLog.Debug().Err(err).Msg("Relay write failed")
				return
			}
		}
	}
}
