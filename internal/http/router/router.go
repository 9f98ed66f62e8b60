// Package router assembles the gin engine from the application's modules.
package router

import (
	"net/http"
	"time"

	apphttp "campaign_tracking_backend/internal/http"
	"campaign_tracking_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the HTTP engine: global middleware, health endpoint, and the
// route groups each module mounts itself on. The tracking group carries a
// per-IP rate limit since it is unauthenticated by design.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	engine.GET("/api/health", func(c *gin.Context) {
		status := http.StatusOK
		dbState := "ok"
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				dbState = "unreachable"
			}
		}
		c.JSON(status, gin.H{"status": "ok", "database": dbState})
	})

	limiter := httpkit.NewIPRateLimiter(
		rate.Limit(app.Config.GetTrackingRateLimit()),
		app.Config.GetTrackingRateBurst(),
		app.Logger,
	)

	v1 := engine.Group("/api/v1")
	tracking := v1.Group("/track")
	tracking.Use(limiter.RateLimit())

	ctx := &apphttp.RouterContext{
		Engine:   engine,
		V1:       v1,
		Tracking: tracking,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if app.Config.GetCORSAllowAll() {
		// Tracking pixels load on arbitrary customer sites.
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}

	return cors.New(cfg)
}
