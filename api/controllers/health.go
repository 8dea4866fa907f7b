package controllers

import (
	"net/http"

	"github.com/sheetbooks/sheetbooks-backend/api/responses"
	"github.com/sheetbooks/sheetbooks-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SheetBooks-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. Sheets access runs entirely on
// per-request caller credentials, so there is no ambient dependency to
// probe here.
func HealthReady(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SheetBooks-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
