package httpx

import (
	"net/http"

	"github.com/SyedMHaroon/NamazBot/internal/http/handlers"
	"github.com/SyedMHaroon/NamazBot/internal/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BuildRouter wires the webhook, health, metrics and admin routes
func BuildRouter(
	wh *handlers.WebhookHandlers,
	ah *handlers.AdminHandlers,
	ph *handlers.PolicyHandlers,
	jwtmw *middleware.AuthMW,
	cb middleware.CasbinMiddleware,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	health := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	r.GET("/", health)
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/webhook", wh.Receive)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/subscribers", ah.ListSubscribers)
	adm.POST("/subscribers/:id", ah.AddSubscriber)
	adm.DELETE("/subscribers/:id", ah.RemoveSubscriber)
	adm.GET("/profiles/:id", ah.GetProfile)
	adm.POST("/ticks/:name", ah.RunTick)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
