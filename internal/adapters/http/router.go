package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chessclass/liveboard/internal/adapters/signal"
	"github.com/chessclass/liveboard/internal/app"
	"github.com/chessclass/liveboard/internal/config"
	"github.com/chessclass/liveboard/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags the browser with a stable cookie so the
// web app can correlate reconnects; the board protocol itself keys by
// per-socket connection id, not by this token.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, sess *app.Session, boards *app.BoardStore) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("LiveboardSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Active rooms with live members, for the teacher dashboard.
	api.GET("/rooms", func(c *gin.Context) {
		type roomInfo struct {
			ClassID     domain.RoomID `json:"classId"`
			MemberCount int           `json:"memberCount"`
			GameStarted bool          `json:"gameStarted"`
		}
		out := []roomInfo{}
		for _, id := range sess.ActiveRooms() {
			_, started := boards.Snapshot(id)
			out = append(out, roomInfo{
				ClassID:     id,
				MemberCount: len(sess.Roster(id)),
				GameStarted: started,
			})
		}
		c.JSON(200, out)
	})

	ctrl := signal.NewBoardWSController(sess, cfg)
	api.GET("/ws/board", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws board endpoint hit")
		ctrl.HandleBoard(ctx, c)
	})

	return r
}
