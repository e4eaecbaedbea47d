package handlers

import (
	"bytes"
	"net/http"

	"github.com/sirupsen/logrus"

	services "grid-forecast/service"
	"grid-forecast/util"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *logrus.Logger
}

func NewDashboardHandler(dashboardService *services.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// GetDashboard handles GET /dashboard and renders the chart page.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.Build(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("[DashboardHandler] Error building dashboard")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := util.RenderDashboardChart(&buf, *dashboard); err != nil {
		h.logger.WithError(err).Error("[DashboardHandler] Error rendering dashboard")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetDashboardData handles GET /v1/dashboard, the raw data behind the chart.
func (h *DashboardHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.Build(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("[DashboardHandler] Error building dashboard")
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, dashboard)
}

// Ping handles GET /ping
func (h *DashboardHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "pong"})
}
