package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/chessclass/liveboard/internal/app"
	"github.com/chessclass/liveboard/internal/config"
	"github.com/chessclass/liveboard/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type BoardWSController struct {
	Session *app.Session

	readLimit  int64
	pingPeriod time.Duration
	sendBuffer int
	joins      *JoinRateLimiter
}

func NewBoardWSController(sess *app.Session, cfg *config.Config) *BoardWSController {
	pingPeriod := cfg.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &BoardWSController{
		Session:    sess,
		readLimit:  cfg.ReadLimit,
		pingPeriod: pingPeriod,
		sendBuffer: sendBuffer,
		joins:      NewJoinRateLimiter(cfg.JoinRateLimit, cfg.JoinRateWindow),
	}
}

// WsBoardConn adapts one websocket to core.BoardConn. Sends go through
// a buffered channel drained by the write pump; a full buffer is
// backpressure, never a block.
type WsBoardConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsBoardConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsBoardConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleBoard upgrades the request and runs the connection's pumps. The
// connection id is minted here and dies with the socket.
func (ctl *BoardWSController) HandleBoard(ctx context.Context, c *gin.Context) {
	cid := core.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &WsBoardConn{
		conn: ws,
		send: make(chan core.Frame, ctl.sendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, cid, conn)
	}()
}
