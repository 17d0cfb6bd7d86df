package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/ipgeo-server/internal/api/http/handler"
	"github.com/dtroode/ipgeo-server/internal/api/http/middleware"
	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// Options tunes the cross-cutting middleware of the API.
type Options struct {
	CORSOrigin string
	LoginRPS   float64
	LoginBurst int
}

// Router represents the REST router of the geolocation API.
type Router struct {
	authService    handler.AuthService
	historyService handler.HistoryService
	geoService     handler.GeoService
	exportService  handler.ExportService
	tokenVerifier  middleware.TokenVerifier
	contextManager model.ContextManager
	opts           Options
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	historyService handler.HistoryService,
	geoService handler.GeoService,
	tokenVerifier middleware.TokenVerifier,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		historyService: historyService,
		geoService:     geoService,
		tokenVerifier:  tokenVerifier,
		contextManager: contextManager,
		opts:           opts,
		logger:         logger,
	}
}

// WithExport enables POST /api/history/export.
func (r *Router) WithExport(exportService handler.ExportService) *Router {
	r.exportService = exportService
	return r
}

// Register builds the gin engine with all routes and middleware.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenVerifier, r.contextManager, r.logger)
	rateLimit := middleware.NewRateLimit(r.opts.LoginRPS, r.opts.LoginBurst)

	origin := r.opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	e := gin.New()
	e.Use(gin.Recovery(), logging.Handle, middleware.CORS(origin))

	api := e.Group("/api")
	r.registerAuthRoutes(api, rateLimit)

	protected := api.Group("", authenticate.Handle)
	r.registerProfileRoutes(protected)
	r.registerGeoRoutes(protected)
	r.registerHistoryRoutes(protected)

	return e
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup, rateLimit *middleware.RateLimit) {
	authHandler := handler.NewAuth(r.authService, r.logger)
	api.POST("/login", rateLimit.Handle, authHandler.Login)
	api.POST("/register", rateLimit.Handle, authHandler.Register)
}

func (r *Router) registerProfileRoutes(g *gin.RouterGroup) {
	profileHandler := handler.NewProfile(r.contextManager)
	g.GET("/profile", profileHandler.Get)
}

func (r *Router) registerGeoRoutes(g *gin.RouterGroup) {
	geoHandler := handler.NewGeo(r.geoService, r.logger)
	g.GET("/geo", geoHandler.Lookup)
	g.GET("/geo/:ip", geoHandler.Lookup)
}

func (r *Router) registerHistoryRoutes(g *gin.RouterGroup) {
	historyHandler := handler.NewHistory(r.historyService, r.contextManager, r.logger)
	g.GET("/history", historyHandler.List)
	g.POST("/history", historyHandler.Add)
	g.DELETE("/history", historyHandler.Delete)

	if r.exportService != nil {
		exportHandler := handler.NewExport(r.exportService, r.contextManager)
		g.POST("/history/export", exportHandler.Create)
	}
}
