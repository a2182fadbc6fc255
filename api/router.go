package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/qrgen/api/middleware"
	"github.com/prasetyowira/qrgen/constant"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
)

// Router represents the application router
type Router struct {
	handler  *Handler
	router   *chi.Mux
	username string
	password string
}

// NewRouter creates a new router
func NewRouter(handler *Handler, username, password string) *Router {
	r := chi.NewRouter()

	// Middleware setup
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.RequestLogger())
	r.Use(middleware.Recoverer)

	return &Router{
		handler:  handler,
		router:   r,
		username: username,
		password: password,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	r.router.Post(constant.RouteClassify, r.handler.Classify)
	r.router.Get(constant.RouteQRCode, r.handler.PreviewQRCode)
	r.router.Post(constant.RouteQRCode, r.handler.GenerateQRCode)
	r.router.Post(constant.RouteWiFiQRCode, r.handler.GenerateWiFiQRCode)
	r.router.Post(constant.RouteVCardQRCode, r.handler.GenerateVCardQRCode)
	r.router.Get(constant.RouteHistory, r.handler.GetHistory)
	r.router.Get(constant.RouteHistoryEntry, r.handler.GetHistoryEntry)

	// Destructive routes with Basic Auth
	creds := map[string]string{
		r.username: r.password,
	}
	r.router.With(
		middleware.BasicAuth("qrgen", creds),
	).Delete(constant.RouteHistory, r.handler.ClearHistory)

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, r *http.Request) {
		appLogger.CtxDebug(r.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
