package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pivovar/internal/i18n"
	"pivovar/internal/logger"
	"pivovar/internal/service"
	"pivovar/internal/store"
	"pivovar/internal/web"
)

// Deps are the collaborators of the HTTP layer besides the services.
type Deps struct {
	Store       *store.Store
	Catalog     *i18n.Catalog
	Pages       *web.Renderer
	Console     *logger.Console
	Metrics     http.Handler
	Log         *logger.Logger
	AuthEnabled bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	store       *store.Store
	catalog     *i18n.Catalog
	pages       *web.Renderer
	console     *logger.Console
	metrics     http.Handler
	log         *logger.Logger
	authEnabled bool
}

func NewHandler(services *service.Service, d Deps) *Handler {
	return &Handler{
		services:    services,
		store:       d.Store,
		catalog:     d.Catalog,
		pages:       d.Pages,
		console:     d.Console,
		metrics:     d.Metrics,
		log:         d.Log,
		authEnabled: d.AuthEnabled,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}
	router.StaticFS("/static", web.Static())

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)
	h.registerPages(router)

	router.GET("/ws", h.localeMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerWashMachineRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerWashMachineRoutes(api *gin.RouterGroup) {
	wm := api.Group("/wash_machines")
	{
		wm.GET("", h.listWashMachines)
		wm.GET("/:name", h.getWashMachine)
		// Body example: {"phases":["drying","heating"]}
		wm.PUT("/:name/phases", h.requireAuth, h.reorderPhases)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs", h.requireAuth)
	{
		logs.GET("", h.getLogs)
	}
	api.GET("/console", h.requireAuth, h.getConsole)
}

func (h *Handler) registerPages(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/wash_machines")
	})
	pages := r.Group("", h.localeMiddleware)
	{
		pages.GET("/wash_machines", h.washMachinesPage)
		pages.GET("/fermenters", h.fermentersPage)
		pages.GET("/console", h.consolePage)
	}
}
