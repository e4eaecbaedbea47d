package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ForecastRoutes serves the forecast artifacts and triggers runs.
type ForecastRoutes interface {
	ListForecasts(w http.ResponseWriter, r *http.Request)
	LatestForecast(w http.ResponseWriter, r *http.Request)
	GetForecast(w http.ResponseWriter, r *http.Request)
	RunForecast(w http.ResponseWriter, r *http.Request)
}

// DashboardRoutes serves the dashboard page and its data.
type DashboardRoutes interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetDashboardData(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	forecastHandler  ForecastRoutes
	dashboardHandler DashboardRoutes
	metricsHandler   http.Handler
	router           *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(
	forecastHandler ForecastRoutes,
	dashboardHandler DashboardRoutes,
	metricsHandler http.Handler,
	router *mux.Router) *Router {
	return &Router{
		forecastHandler:  forecastHandler,
		dashboardHandler: dashboardHandler,
		metricsHandler:   metricsHandler,
		router:           router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.dashboardHandler.Ping).Methods("GET")
	r.router.HandleFunc("/dashboard", r.dashboardHandler.GetDashboard).Methods("GET")
	r.router.HandleFunc("/v1/dashboard", r.dashboardHandler.GetDashboardData).Methods("GET")

	r.router.HandleFunc("/v1/forecasts", r.forecastHandler.ListForecasts).Methods("GET")
	// latest and run must be matched before {date}
	r.router.HandleFunc("/v1/forecasts/latest", r.forecastHandler.LatestForecast).Methods("GET")
	// accepts ?date={YYYY-MM-DD}
	r.router.HandleFunc("/v1/forecasts/run", r.forecastHandler.RunForecast).Methods("POST")
	r.router.HandleFunc("/v1/forecasts/{date}", r.forecastHandler.GetForecast).Methods("GET")

	r.router.Handle("/metrics", r.metricsHandler).Methods("GET")
}
