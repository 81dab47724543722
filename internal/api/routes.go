package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buurtmarkt/internal/api/handlers"
)

type Router struct {
	sessionHandler   *handlers.SessionHandler
	locationHandler  *handlers.LocationHandler
	discoveryHandler *handlers.DiscoveryHandler
	metricsHandler   http.Handler
}

func NewRouter(
	sessionHandler *handlers.SessionHandler,
	locationHandler *handlers.LocationHandler,
	discoveryHandler *handlers.DiscoveryHandler,
	metricsHandler http.Handler,
) *Router {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	return &Router{
		sessionHandler:   sessionHandler,
		locationHandler:  locationHandler,
		discoveryHandler: discoveryHandler,
		metricsHandler:   metricsHandler,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(r.metricsHandler))

	engine.POST("/sessions", r.sessionHandler.CreateSession)

	session := engine.Group("/sessions/:id")
	{
		session.GET("", r.sessionHandler.GetSession)
		session.DELETE("", r.sessionHandler.EndSession)

		session.GET("/location", r.locationHandler.GetLocation)
		session.POST("/location/address", r.locationHandler.ResolveAddress)
		session.POST("/location/gps", r.locationHandler.ResolveGPS)

		session.GET("/discover/listings", r.discoveryHandler.DiscoverListings)
		session.GET("/discover/people", r.discoveryHandler.DiscoverPeople)
	}
}
