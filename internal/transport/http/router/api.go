package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"task-tracker/internal/core/config"
	"task-tracker/internal/core/server"
	"task-tracker/internal/service"
	"task-tracker/internal/transport/http/handler"
	mdw "task-tracker/internal/transport/http/middleware"
)

type Deps struct {
	Log       *zap.Logger
	Users     *service.UserService
	Tasks     *service.TaskService
	Analytics *service.AnalyticsService
	Limits    config.Limits
}

// NewAPIEngine wires middleware and mounts /health, /metrics, /auth and /tasks.
// A zero limit leaves the matching middleware out.
func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
	)
	r.Use(limitChain(d.Limits)...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewAuthHandler(d.Users, l).Mount(r.Group("/auth"))

	tasks := r.Group("/tasks")
	tasks.Use(mdw.AuthToken(d.Users, l))
	handler.NewTaskHandler(d.Tasks, d.Analytics, l).Mount(tasks)

	return r
}

// limitChain builds the protection middleware. Timeout runs before ConcurrencyLimit so a
// request queued for a slot gives up at its deadline.
func limitChain(lim config.Limits) []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if lim.RPS > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	if lim.PerIPRPS > 0 {
		hs = append(hs, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), max(1, lim.PerIPBurst)))
	}
	if lim.TimeoutSec > 0 {
		hs = append(hs, mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second))
	}
	if lim.MaxInflight > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(lim.MaxInflight))
	}
	if lim.MaxBodyBytes > 0 {
		hs = append(hs, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	return hs
}
