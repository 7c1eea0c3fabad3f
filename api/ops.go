package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"substratex/adapters/report"
	"substratex/app"
)

// OpsRouter serves the operational surface: health probes and
// human-readable HTML reports, kept off the JSON API port.
type OpsRouter struct {
	router    *chi.Mux
	indicator *app.IndicatorService
	builder   *report.Builder
	startedAt time.Time
}

// NewOpsRouter wires the ops routes.
func NewOpsRouter(indicator *app.IndicatorService) *OpsRouter {
	o := &OpsRouter{
		router:    chi.NewRouter(),
		indicator: indicator,
		builder:   report.NewBuilder(),
		startedAt: time.Now(),
	}

	o.router.Use(middleware.Logger)
	o.router.Use(middleware.Recoverer)

	o.router.Get("/healthz", o.handleHealth)
	o.router.Get("/reports/signals", o.handleSignalReport)
	return o
}

// Handler exposes the chi mux.
func (o *OpsRouter) Handler() http.Handler { return o.router }

func (o *OpsRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok, up " + time.Since(o.startedAt).Round(time.Second).String()))
}

func (o *OpsRouter) handleSignalReport(w http.ResponseWriter, r *http.Request) {
	readings, err := o.indicator.RecentSignals(r.Context(), 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	md := o.builder.SignalMarkdown(readings)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.ToHTML(md))
}
