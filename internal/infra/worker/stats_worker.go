package worker

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/prospection-crm/internal/usecase"
)

var (
	prospectsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prospects_by_status",
			Help: "Number of cached prospects per pipeline status",
		},
		[]string{"status"},
	)

	pipelineValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_value_euros",
			Help: "Summed estimated value of prospects not lost",
		},
	)
)

// StatsWorker periodically publishes the dashboard counters as gauges. It
// only reads the cache and never reloads it.
type StatsWorker struct {
	store        usecase.ProspectLister
	tickInterval time.Duration
}

func NewStatsWorker(store usecase.ProspectLister) *StatsWorker {
	return &StatsWorker{
		store:        store,
		tickInterval: 1 * time.Minute,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	log.Println("🕒 Stats worker démarré")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh()

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Stats worker arrêté")
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *StatsWorker) refresh() usecase.Stats {
	stats := usecase.ComputeStats(w.store.Prospects())
	for status, n := range stats.ByStatus {
		prospectsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	pipelineValue.Set(stats.PipelineValue)
	return stats
}
