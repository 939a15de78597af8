package router

import (
	"html/template"

	"crudboard/internal/app/board"
	"crudboard/internal/app/health"
	"crudboard/internal/app/web"
	"crudboard/internal/gateways/websocket"
	"crudboard/internal/metrics"
	"crudboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger, m *metrics.Metrics, frontendURL string) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware(frontendURL))
	engine.Use(middleware.LoggerMiddleware(logger))
	if m != nil {
		engine.Use(middleware.Metrics(m))
	}
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebRoutes(tmpl *template.Template, handler web.Handler) {
	r.Engine.SetHTMLTemplate(tmpl)
	web.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterMetricsRoutes(gatherer prometheus.Gatherer) {
	r.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
