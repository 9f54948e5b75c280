package forecast

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/finflow/finflow/internal/rest"
	"github.com/finflow/finflow/pkg/user"
	log "github.com/sirupsen/logrus"
)

const defaultQuantity = 10

type ResultDTO struct {
	Mode     string    `json:"mode"`
	Quantity int       `json:"quantity"`
	Expenses []float64 `json:"expenses"`
	Incomes  []float64 `json:"incomes"`
}

type Handler struct {
	service     Service
	csvRenderer ResultRenderer
}

func NewHandler(service Service, csvRenderer ResultRenderer) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer}
}

// GetForecast godoc
// @Summary Forecast expenses and incomes
// @Description Fits a seasonal exponential smoothing model to the ledger history and forecasts future totals
// @Tags Forecast
// @Produce json
// @Produce text/csv
// @Param mode query string false "day or month" default(day)
// @Param quantity query int false "Number of values to forecast" default(10)
// @Success 200 {object} ResultDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid mode or quantity"
// @Failure 403 {string} string "User not found"
// @Failure 422 {object} rest.ErrorResponse "Not enough history"
// @Router /api/forecast [get]
// @Security XUserId
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	mode := ModeDay
	if modeParam := r.URL.Query().Get("mode"); modeParam != "" {
		parsed, err := ParseMode(modeParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid mode", "mode must be one of: day, month")
			return
		}
		mode = parsed
	}

	quantity := defaultQuantity
	if quantityParam := r.URL.Query().Get("quantity"); quantityParam != "" {
		parsed, err := strconv.Atoi(quantityParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid quantity", "quantity must be a positive integer")
			return
		}
		quantity = parsed
	}

	result, err := h.service.RunForecast(r.Context(), mode, quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.csvRenderer.RenderResult(result)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resultToDTO(result)); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrInvalidParameter):
		rest.WriteError(w, http.StatusBadRequest, "Invalid forecast parameters", err.Error())
	case errors.Is(err, ErrInsufficientData):
		rest.WriteError(w, http.StatusUnprocessableEntity, "Not enough history to forecast", err.Error())
	default:
		log.Errorf("forecast failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func resultToDTO(result Result) ResultDTO {
	return ResultDTO{
		Mode:     string(result.Mode),
		Quantity: result.Quantity,
		Expenses: result.Expenses,
		Incomes:  result.Incomes,
	}
}
