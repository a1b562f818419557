package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"surq/internal/service"
	"surq/internal/transport/rest/handler"
	"surq/internal/transport/rest/middleware"
	"surq/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	UserService         *service.UserService
	SurveyService       *service.SurveyService
	ResponseService     *service.ResponseService
	CouponService       *service.CouponService
	ReportService       *service.ReportService
	NotificationService *service.NotificationService
	SweeperService      *service.SweeperService
	WSHub               *ws.Hub
	IsAdmin             func(email string) bool
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	userHandler := handler.NewUserHandler(c.UserService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	couponHandler := handler.NewCouponHandler(c.CouponService)
	reportHandler := handler.NewReportHandler(c.ReportService)
	notifHandler := handler.NewNotificationHandler(c.NotificationService)
	adminHandler := handler.NewAdminHandler(c.UserService, c.ReportService, c.SweeperService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService, c.IsAdmin)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Survey browsing is public. /surveys/mine must be registered before the
	// {surveyId} pattern or it would be captured as an id.
	v1.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	v1.Handle("/surveys/mine", authMW.RequireUser(http.HandlerFunc(surveyHandler.ListMine))).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/notifications", wsHandler.Notifications).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/users/me", userHandler.Me).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")

	userRoutes.HandleFunc("/surveys/{surveyId}/responses/track", responseHandler.Track).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/surveys/{surveyId}/responses", responseHandler.List).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/coupons", couponHandler.Redeem).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/coupons", couponHandler.History).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/reports", reportHandler.Create).Methods("POST", "OPTIONS")

	userRoutes.HandleFunc("/notifications", notifHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/notifications/read-all", notifHandler.MarkAllRead).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/notifications/{notificationId}/read", notifHandler.MarkRead).Methods("PUT", "OPTIONS")

	// Admin routes (allowlisted emails only)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireUser, authMW.RequireAdmin)

	adminRoutes.HandleFunc("/users", adminHandler.ListUsers).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/users/{userId}/ban", adminHandler.BanUser).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/reports", adminHandler.ListReports).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/reports/{reportId}", adminHandler.ResolveReport).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/surveys/check-expiry", adminHandler.CheckExpiry).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/surveys/restore-expired", adminHandler.RestoreExpired).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
