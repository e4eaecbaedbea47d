package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"grid-forecast/dao/blob"
	"grid-forecast/db"
	"grid-forecast/models"
	services "grid-forecast/service"
)

const (
	DATE_PATH_VAR  = "date"
	DATE_QUERY_ARG = "date"
)

type forecastDatesResponse struct {
	Dates []string `json:"dates"`
}

type ForecastHandler struct {
	dao             *blob.ForecastDAO
	forecastService *services.ForecastService
	logger          *logrus.Logger
}

func NewForecastHandler(dao *blob.ForecastDAO, forecastService *services.ForecastService, logger *logrus.Logger) *ForecastHandler {
	return &ForecastHandler{dao: dao, forecastService: forecastService, logger: logger}
}

// ListForecasts handles GET /v1/forecasts
func (h *ForecastHandler) ListForecasts(w http.ResponseWriter, r *http.Request) {
	dates, err := h.dao.ListForecastDates(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("[ForecastHandler] Error listing forecasts")
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, forecastDatesResponse{Dates: dates})
}

// LatestForecast handles GET /v1/forecasts/latest
func (h *ForecastHandler) LatestForecast(w http.ResponseWriter, r *http.Request) {
	latest, err := h.dao.LatestForecasts(r.Context(), 1)
	if err != nil {
		h.logger.WithError(err).Error("[ForecastHandler] Error loading latest forecast")
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(latest) == 0 {
		writeError(w, h.logger, http.StatusNotFound, "no forecasts stored")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, latest[0])
}

// GetForecast handles GET /v1/forecasts/{date}
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)[DATE_PATH_VAR]
	if _, err := time.Parse(blob.FORECAST_DATE_LAYOUT, date); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid argument "+DATE_PATH_VAR)
		return
	}

	series, err := h.dao.GetForecast(r.Context(), date)
	if errors.Is(err, db.ErrBlobNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "no forecast for "+date)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("[ForecastHandler] Error loading forecast")
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, models.DatedForecast{Date: date, Points: series})
}

// RunForecast handles POST /v1/forecasts/run, optionally with ?date=YYYY-MM-DD.
func (h *ForecastHandler) RunForecast(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if v := r.URL.Query().Get(DATE_QUERY_ARG); v != "" {
		parsed, err := time.Parse(blob.FORECAST_DATE_LAYOUT, v)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid argument "+DATE_QUERY_ARG)
			return
		}
		date = parsed
	}

	summary, err := h.forecastService.RunForecast(r.Context(), date)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}
