package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gosurvey/internal"
	"gosurvey/internal/dashboard"
	"gosurvey/internal/errors"
)

type api struct {
	dash *dashboard.Dashboard
	log  *internal.Logger
}

// NewAPIRouter serves read-only JSON about sources and charts
func NewAPIRouter(dash *dashboard.Dashboard, log *internal.Logger) http.Handler {
	a := &api{dash: dash, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/sources", a.handleSources)
	r.Get("/charts/{tab}", a.handleTab)
	r.Get("/charts/{tab}/{chart}", a.handleChart)
	return r
}

func (a *api) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": a.dash.Sources(r.Context())})
}

func (a *api) handleTab(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	charts, err := a.dash.TabStatus(r.Context(), tab)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tab": tab, "charts": charts})
}

func (a *api) handleChart(w http.ResponseWriter, r *http.Request) {
	tab, chart := chi.URLParam(r, "tab"), chi.URLParam(r, "chart")
	data, err := a.dash.ChartData(r.Context(), tab, chart)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tab": tab, "chart": chart, "data": data})
}

// writeError maps error codes to HTTP statuses
func (a *api) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeMissingColumn, errors.CodeInvalidInput:
		status = http.StatusUnprocessableEntity
	case errors.CodeSourceUnavailable:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		a.log.Error("[API] %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
