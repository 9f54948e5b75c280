package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")

	// Categories
	r.HandleFunc("/api/category", deps.LedgerHandler.ListCategories).Methods("GET")
	r.HandleFunc("/api/category", deps.LedgerHandler.CreateCategory).Methods("POST")

	// Ledger entries
	r.HandleFunc("/api/entry", deps.LedgerHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/entry", deps.LedgerHandler.RecordEntry).Methods("POST")
	r.HandleFunc("/api/entry/{entryId}", deps.LedgerHandler.GetEntry).Methods("GET")
	r.HandleFunc("/api/entry/{entryId}", deps.LedgerHandler.DeleteEntry).Methods("DELETE")

	// History
	r.HandleFunc("/api/history", deps.LedgerHandler.GetHistory).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Forecast
	r.HandleFunc("/api/forecast", deps.ForecastHandler.GetForecast).Methods("GET")
}
