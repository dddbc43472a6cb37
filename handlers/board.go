package handlers

import (
	"context"
	"net/http"
	"time"

	"chronoboard/services/board"
	"chronoboard/services/school"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// BoardHub is the part of board.Hub the display endpoints use.
type BoardHub interface {
	Subscribe(ctx context.Context, schoolID string) (<-chan board.Frame, func(), error)
	Evaluate(ctx context.Context, schoolID string) (board.Frame, error)
}

// BoardHandler serves the public display.
type BoardHandler struct {
	Schools  school.SchoolService
	Hub      BoardHub
	upgrader websocket.Upgrader
}

func NewBoardHandler(schools school.SchoolService, hub BoardHub) *BoardHandler {
	return &BoardHandler{
		Schools: schools,
		Hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// displays are served from any origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// GetBoardHandler returns the public school record (no password hash).
func (h *BoardHandler) GetBoardHandler(c *gin.Context) {
	s, err := h.Schools.GetPublicSchool(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetBoardStateHandler returns a single evaluated frame for polling clients.
func (h *BoardHandler) GetBoardStateHandler(c *gin.Context) {
	frame, err := h.Hub.Evaluate(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// StreamBoardHandler upgrades to a websocket and pushes one frame per tick.
func (h *BoardHandler) StreamBoardHandler(c *gin.Context) {
	schoolID := c.Param("schoolId")
	logger := utils.GetLogger().With(zap.String("schoolId", schoolID))

	// Subscribe before upgrading so an unknown school still gets a 404.
	frames, cancel, err := h.Hub.Subscribe(c.Request.Context(), schoolID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	logger.Debug("Board stream opened", zap.String("ip", c.ClientIP()))

	// The reader only drains control frames and notices the client leaving.
	gone := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	defer func() {
		conn.Close()
		<-gone
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			logger.Debug("Board stream closed by client")
			return
		case frame, ok := <-frames:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "board closed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				logger.Debug("Board stream write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
