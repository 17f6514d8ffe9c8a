package rest

import (
	"net/http"
	"strings"

	"vozgestora/internal/model"
	"vozgestora/internal/service"
	"vozgestora/internal/transport/rest/handler"
	"vozgestora/internal/transport/rest/middleware"
	"vozgestora/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CORS holds the values of the Access-Control-Allow-* headers
type CORS struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Container holds all dependencies for the router
type Container struct {
	Directory         *service.DirectoryService
	AuthService       *service.AuthService
	DashboardService  *service.DashboardService
	MetricService     *service.MetricService
	AlertService      *service.AlertService
	FeedbackService   *service.FeedbackService
	InsightService    *service.InsightService
	SubmissionService *service.SubmissionService
	PollService       *service.PollService
	WSHub             *ws.Hub
	CORS              CORS
	Logger            *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	municipalityHandler := handler.NewMunicipalityHandler(c.Directory)
	dashboardHandler := handler.NewDashboardHandler(c.DashboardService, c.MetricService, c.AlertService, c.SubmissionService)
	feedbackHandler := handler.NewFeedbackHandler(c.FeedbackService, c.InsightService)
	pollHandler := handler.NewPollHandler(c.PollService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, splitList(c.CORS.AllowedOrigins), c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.RequestLogger(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/municipalities", municipalityHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/municipalities/{id}", municipalityHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/routes/resolve", municipalityHandler.ResolveRoute).Methods("GET", "OPTIONS")

	// Citizen poll (public)
	v1.HandleFunc("/polls/wizard/{id}", pollHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/polls/wizard/{id}", pollHandler.Close).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/polls/wizard/{id}/identify", pollHandler.Identify).Methods("POST", "OPTIONS")
	v1.HandleFunc("/polls/wizard/{id}/category", pollHandler.ChooseCategory).Methods("POST", "OPTIONS")
	v1.HandleFunc("/polls/wizard/{id}/back", pollHandler.Back).Methods("POST", "OPTIONS")
	v1.HandleFunc("/polls/wizard/{id}/submit", pollHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/polls/{municipalityId}", pollHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/municipalities/{id}", wsHandler.MunicipalityWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/auth/switch", authHandler.Switch).Methods("POST", "OPTIONS")

	tab := func(t model.Tab, h http.HandlerFunc) http.Handler {
		return middleware.RequireTab(t)(h)
	}

	sessionRoutes.Handle("/dashboard", tab(model.TabDashboard, dashboardHandler.Dashboard)).Methods("GET", "OPTIONS")
	sessionRoutes.Handle("/metrics", tab(model.TabDashboard, dashboardHandler.Metrics)).Methods("GET", "OPTIONS")

	sessionRoutes.Handle("/alerts", tab(model.TabAlerts, dashboardHandler.Alerts)).Methods("GET", "OPTIONS")
	sessionRoutes.Handle("/alerts/{alertId}/resolve", tab(model.TabAlerts, dashboardHandler.ResolveAlert)).Methods("POST", "OPTIONS")

	sessionRoutes.Handle("/feedback", tab(model.TabFeed, feedbackHandler.List)).Methods("GET", "OPTIONS")
	sessionRoutes.Handle("/feedback/summary", tab(model.TabFeed, feedbackHandler.Summary)).Methods("GET", "OPTIONS")
	sessionRoutes.Handle("/feedback/{id}/status", tab(model.TabFeed, feedbackHandler.UpdateStatus)).Methods("PATCH", "OPTIONS")

	sessionRoutes.Handle("/insights/advisor", tab(model.TabReports, feedbackHandler.Advisor)).Methods("GET", "OPTIONS")
	sessionRoutes.Handle("/insights/report", tab(model.TabReports, feedbackHandler.GenerateReport)).Methods("POST", "OPTIONS")
	sessionRoutes.Handle("/insights/report", tab(model.TabReports, feedbackHandler.LatestReport)).Methods("GET", "OPTIONS")

	sessionRoutes.Handle("/submissions", tab(model.TabDataEntry, dashboardHandler.Submit)).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(c CORS) mux.MiddlewareFunc {
	origins := c.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	methods := c.AllowedMethods
	if methods == "" {
		methods = "GET, POST, PATCH, DELETE, OPTIONS"
	}
	headers := c.AllowedHeaders
	if headers == "" {
		headers = "Content-Type, Authorization"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
