// Package metrics exposes effect and background counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/deskfx/internal/effects"
)

const namespace = "deskfx"

// Metrics holds the collectors. It implements effects.Observer.
type Metrics struct {
	registry *prometheus.Registry

	effectsStarted  *prometheus.CounterVec
	effectsFinished *prometheus.CounterVec
	effectsActive   prometheus.Gauge
	rebuilds        prometheus.Counter
	backgrounds     prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		effectsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "effects_started_total",
				Help:      "Total number of effects started",
			},
			[]string{"category"},
		),
		effectsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "effects_finished_total",
				Help:      "Total number of effects resolved, by natural or forced completion",
			},
			[]string{"category", "reason"},
		),
		effectsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "effects_active",
			Help:      "Effects currently running",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_rebuilds_total",
			Help:      "Total number of background rebuilds",
		}),
		backgrounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backgrounds",
			Help:      "Backgrounds currently on stage",
		}),
	}
	m.registry.MustRegister(m.effectsStarted, m.effectsFinished, m.effectsActive, m.rebuilds, m.backgrounds)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// EffectStarted records a started effect.
func (m *Metrics) EffectStarted(c effects.Category) {
	m.effectsStarted.WithLabelValues(c.String()).Inc()
	m.effectsActive.Inc()
}

// EffectFinished records a resolved effect.
func (m *Metrics) EffectFinished(c effects.Category, forced bool) {
	reason := "completed"
	if forced {
		reason = "forced"
	}
	m.effectsFinished.WithLabelValues(c.String(), reason).Inc()
	m.effectsActive.Dec()
}

// BackgroundsRebuilt records a rebuild that produced n backgrounds.
func (m *Metrics) BackgroundsRebuilt(n int) {
	m.rebuilds.Inc()
	m.backgrounds.Set(float64(n))
}

// NewRouter returns a router serving /metrics and /healthz.
func (m *Metrics) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}

// Serve listens on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown error", "error", err)
	}
	return nil
}
