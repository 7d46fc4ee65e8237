package http

import (
	"net/http"

	"github.com/abreuwilliam/Desafio/internal/delivery/http/handler"
	"github.com/abreuwilliam/Desafio/internal/delivery/http/middleware"
	ws "github.com/abreuwilliam/Desafio/internal/delivery/websocket"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	authHandler      *handler.AuthHandler
	vitalSignHandler *handler.VitalSignHandler
	wsHandler        *ws.Handler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	vitalSignHandler *handler.VitalSignHandler,
	wsHandler *ws.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		authHandler:      authHandler,
		vitalSignHandler: vitalSignHandler,
		wsHandler:        wsHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Ingestion is public so monitoring devices need no token.
	api.HandleFunc("/vital-signs", r.vitalSignHandler.Ingest).Methods(http.MethodPost)

	// Read paths (protected)
	vitals := api.PathPrefix("/vital-signs").Subrouter()
	vitals.Use(r.authMiddleware.Authenticate)
	vitals.HandleFunc("/patient/{id}/latest", r.vitalSignHandler.GetLatestByPatient).Methods(http.MethodGet)
	vitals.HandleFunc("/patient/{id}/history", r.vitalSignHandler.GetHistoryByPatient).Methods(http.MethodGet)
	vitals.HandleFunc("/latest", r.vitalSignHandler.GetLatestGlobal).Methods(http.MethodGet)
	vitals.HandleFunc("/history", r.vitalSignHandler.GetHistoryGlobal).Methods(http.MethodGet)

	// Real-time feeds
	r.router.HandleFunc("/ws/dashboard", r.wsHandler.Dashboard).Methods(http.MethodGet)
	r.router.HandleFunc("/ws/patient/{id}", r.wsHandler.Patient).Methods(http.MethodGet)

	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
