package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finflow/finflow/internal/rest"
	"github.com/finflow/finflow/pkg/user"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type EntryDTO struct {
	Id          int             `json:"id"`
	CategoryId  int             `json:"categoryId"`
	Kind        string          `json:"kind,omitempty"`
	Date        string          `json:"date,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Permanent   bool            `json:"permanent"`
}

type DailyTotalDTO struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type CategoryTotalDTO struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Color string          `json:"color"`
	Total decimal.Decimal `json:"total"`
}

type HistoryDTO struct {
	From       string             `json:"from"`
	To         string             `json:"to"`
	Incomes    []DailyTotalDTO    `json:"incomes"`
	Expenses   []DailyTotalDTO    `json:"expenses"`
	Transfers  []DailyTotalDTO    `json:"transfers"`
	Categories []CategoryTotalDTO `json:"categories"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListCategories godoc
// @Summary List categories
// @Tags Category
// @Produce json
// @Success 200 {array} CategoryDTO
// @Failure 403 {string} string "User not found"
// @Router /api/category [get]
// @Security XUserId
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	categoriesDTO := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		categoriesDTO = append(categoriesDTO, categoryToDTO(category))
	}
	writeJSON(w, http.StatusOK, categoriesDTO)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Category
// @Accept json
// @Produce json
// @Param category body CategoryDTO true "Category"
// @Success 201 {object} CategoryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 403 {string} string "User not found"
// @Router /api/category [post]
// @Security XUserId
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating category")
	var categoryDTO CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&categoryDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	category, err := h.service.CreateCategory(r.Context(), Category{
		Name:  categoryDTO.Name,
		Kind:  CategoryKind(categoryDTO.Kind),
		Color: categoryDTO.Color,
		Icon:  categoryDTO.Icon,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryToDTO(category))
}

// RecordEntry godoc
// @Summary Record a ledger entry
// @Tags Entry
// @Accept json
// @Produce json
// @Param entry body EntryDTO true "Entry"
// @Success 201 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 403 {string} string "User not found"
// @Failure 404 {object} rest.ErrorResponse "Category not found"
// @Router /api/entry [post]
// @Security XUserId
func (h *Handler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording entry")
	var entryDTO EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&entryDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	entry := Entry{
		CategoryId:  entryDTO.CategoryId,
		Amount:      entryDTO.Amount,
		Description: entryDTO.Description,
		Permanent:   entryDTO.Permanent,
	}
	if entryDTO.Date != "" {
		date, err := time.Parse(time.DateOnly, entryDTO.Date)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
			return
		}
		entry.Date = date
	}

	created, err := h.service.RecordEntry(r.Context(), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryToDTO(created))
}

// ListEntries godoc
// @Summary List ledger entries
// @Tags Entry
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param kind query string false "Category kind (I, E, T)"
// @Success 200 {array} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/entry [get]
// @Security XUserId
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := EntryFilter{}
	if from := query.Get("from"); from != "" {
		date, err := time.Parse(time.DateOnly, from)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from format", "from must be in YYYY-MM-DD format")
			return
		}
		filter.From = &date
	}
	if to := query.Get("to"); to != "" {
		date, err := time.Parse(time.DateOnly, to)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to format", "to must be in YYYY-MM-DD format")
			return
		}
		filter.To = &date
	}
	if kind := query.Get("kind"); kind != "" {
		if !CategoryKind(kind).IsValid() {
			rest.WriteError(w, http.StatusBadRequest, "Invalid kind", "kind must be one of I, E, T")
			return
		}
		filter = filter.WithKind(CategoryKind(kind))
	}

	entries, err := h.service.ListEntries(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entriesDTO := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		entriesDTO = append(entriesDTO, entryToDTO(entry))
	}
	writeJSON(w, http.StatusOK, entriesDTO)
}

// GetEntry godoc
// @Summary Get a ledger entry
// @Tags Entry
// @Produce json
// @Param entryId path int true "Entry ID"
// @Success 200 {object} EntryDTO
// @Failure 404 {object} rest.ErrorResponse "Entry not found"
// @Router /api/entry/{entryId} [get]
// @Security XUserId
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry id", err.Error())
		return
	}
	entry, err := h.service.GetEntry(r.Context(), entryId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToDTO(entry))
}

// DeleteEntry godoc
// @Summary Delete a ledger entry
// @Tags Entry
// @Param entryId path int true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Entry not found"
// @Router /api/entry/{entryId} [delete]
// @Security XUserId
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry id", err.Error())
		return
	}
	deleted, err := h.service.DeleteEntry(r.Context(), entryId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "Entry not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory godoc
// @Summary Daily totals for charts
// @Description Daily income, expense and transfer totals plus per-category totals, permanent entries excluded
// @Tags History
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} HistoryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/history [get]
// @Security XUserId
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from format", "from must be in YYYY-MM-DD format")
		return
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to format", "to must be in YYYY-MM-DD format")
		return
	}

	history, err := h.service.GetHistory(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyToDTO(history))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrInvalidEntry), errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidRange):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrEntryNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func categoryToDTO(category Category) CategoryDTO {
	return CategoryDTO{
		Id:    category.Id,
		Name:  category.Name,
		Kind:  string(category.Kind),
		Color: category.Color,
		Icon:  category.Icon,
	}
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Id:          entry.Id,
		CategoryId:  entry.CategoryId,
		Kind:        string(entry.Kind),
		Date:        entry.Date.Format(time.DateOnly),
		Amount:      entry.Amount,
		Description: entry.Description,
		Permanent:   entry.Permanent,
	}
}

func dailyTotalsToDTO(totals []DailyTotal) []DailyTotalDTO {
	dto := make([]DailyTotalDTO, 0, len(totals))
	for _, total := range totals {
		dto = append(dto, DailyTotalDTO{Date: total.Date.Format(time.DateOnly), Amount: total.Total})
	}
	return dto
}

func historyToDTO(history History) HistoryDTO {
	categories := make([]CategoryTotalDTO, 0, len(history.Categories))
	for _, total := range history.Categories {
		categories = append(categories, CategoryTotalDTO{
			Name:  total.Category.Name,
			Kind:  string(total.Category.Kind),
			Color: total.Category.Color,
			Total: total.Total,
		})
	}
	return HistoryDTO{
		From:       history.From.Format(time.DateOnly),
		To:         history.To.Format(time.DateOnly),
		Incomes:    dailyTotalsToDTO(history.Incomes),
		Expenses:   dailyTotalsToDTO(history.Expenses),
		Transfers:  dailyTotalsToDTO(history.Transfers),
		Categories: categories,
	}
}
