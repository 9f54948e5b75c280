package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finflow/finflow/pkg/user"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A middleware that sets the user in the context
func withUser(u user.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(user.WithUser(r.Context(), u)))
	})
}

func setupRouter(t *testing.T) (*mux.Router, func()) {
	teardown := setup(t)
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.HandleFunc("/api/category", handler.CreateCategory).Methods("POST")
	r.HandleFunc("/api/entry", handler.RecordEntry).Methods("POST")
	r.HandleFunc("/api/entry", handler.ListEntries).Methods("GET")
	r.HandleFunc("/api/entry/{entryId}", handler.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/api/history", handler.GetHistory).Methods("GET")
	return r, teardown
}

func doRequest(router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	withUser(testUser, router).ServeHTTP(w, req)
	return w
}

func TestHandler_RecordEntry(t *testing.T) {
	router, teardown := setupRouter(t)
	defer teardown()

	// given
	w := doRequest(router, http.MethodPost, "/api/category", CategoryDTO{Name: "Food", Kind: "E"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category CategoryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&category))

	// when
	w = doRequest(router, http.MethodPost, "/api/entry", map[string]any{
		"categoryId": category.Id,
		"date":       "2025-06-01",
		"amount":     "19.99",
	})

	// then
	require.Equal(t, http.StatusCreated, w.Code)
	var entry EntryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entry))
	assert.Equal(t, "E", entry.Kind)
	assert.Equal(t, "2025-06-01", entry.Date)
	assert.Equal(t, "19.99", entry.Amount.StringFixed(2))

	w = doRequest(router, http.MethodGet, "/api/entry?from=2025-06-01&to=2025-06-30&kind=E", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []EntryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	assert.Len(t, entries, 1)
}

func TestHandler_RecordEntry_InvalidDate(t *testing.T) {
	router, teardown := setupRouter(t)
	defer teardown()

	w := doRequest(router, http.MethodPost, "/api/entry", map[string]any{"categoryId": 1, "date": "01/06/2025", "amount": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResponse struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Equal(t, "Invalid date format", errResponse.Error)
}

func TestHandler_RecordEntry_UnknownCategory(t *testing.T) {
	router, teardown := setupRouter(t)
	defer teardown()

	w := doRequest(router, http.MethodPost, "/api/entry", map[string]any{"categoryId": 42, "amount": 1})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_DeleteEntry_NotFound(t *testing.T) {
	router, teardown := setupRouter(t)
	defer teardown()

	w := doRequest(router, http.MethodDelete, "/api/entry/12345", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetHistory(t *testing.T) {
	t.Run("should reject missing range", func(t *testing.T) {
		router, teardown := setupRouter(t)
		defer teardown()

		w := doRequest(router, http.MethodGet, "/api/history?from=2025-06-01", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should return empty series for empty ledger", func(t *testing.T) {
		router, teardown := setupRouter(t)
		defer teardown()

		w := doRequest(router, http.MethodGet, "/api/history?from=2025-06-01&to=2025-06-30", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var history HistoryDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
		assert.Equal(t, "2025-06-01", history.From)
		assert.Empty(t, history.Expenses)
		assert.Empty(t, history.Categories)
	})
}
