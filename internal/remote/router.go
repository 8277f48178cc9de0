package remote

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(api *API) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware())
	r.Use(corsMiddleware())

	r.GET("/health", api.Health)
	r.GET("/state", api.State)

	r.POST("/prepare", api.Prepare)
	r.POST("/playpause", api.PlayPause)
	r.POST("/seek", api.Seek)
	r.POST("/volume", api.Volume)
	r.POST("/mute", api.Mute)
	r.POST("/stop", api.Stop)

	return r
}

// logMiddleware logs each request at debug level.
func logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("remote request")
	}
}

// corsMiddleware handles CORS for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
