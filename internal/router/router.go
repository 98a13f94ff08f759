package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/storelane/store-service/api/handler"
)

type Handlers struct {
	Store  *apiHandler.StoreHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public catalog routes
	r.GET("/api/v1/stores", handlers.Store.ListStores)
	r.GET("/api/v1/stores/{id}", handlers.Store.GetStore)

	// Protected routes
	r.POST("/api/v1/stores", authMiddleware(handlers.Store.Register))
	r.GET("/api/v1/stores/me", authMiddleware(handlers.Store.GetMyStore))
	r.PUT("/api/v1/stores/{id}", authMiddleware(handlers.Store.Update))
	r.DELETE("/api/v1/stores/{id}", authMiddleware(handlers.Store.Delete))
	r.POST("/api/v1/stores/{id}/suspend", authMiddleware(handlers.Store.Suspend))
	r.GET("/api/v1/stores/{id}/audits", authMiddleware(handlers.Store.GetAudits))

	return r
}
