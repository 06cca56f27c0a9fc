// Package metrics expõe os coletores Prometheus do painel de casos.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "casos_es"

// Recorder agrupa os coletores do painel. Um Recorder nil ignora todas as chamadas.
type Recorder struct {
	renders        *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	fetchFailures  prometheus.Counter
	droppedDates   prometheus.Counter
	datasetRows    prometheus.Gauge
	datasetMissing *prometheus.GaugeVec
	lastAudit      prometheus.Gauge
}

// NewRecorder cria e registra os coletores no registerer informado
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Ciclos de renderização do painel por doença selecionada",
		}, []string{"doenca"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Tempo gasto buscando a tabela de notificações",
			Buckets:   prometheus.DefBuckets,
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Falhas ao buscar a tabela de notificações",
		}),
		droppedDates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_dates_total",
			Help:      "Linhas descartadas da série semanal por data de notificação inválida",
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Linhas na última auditoria da tabela",
		}),
		datasetMissing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_missing_values",
			Help:      "Valores ausentes ou inválidos por coluna na última auditoria",
		}, []string{"coluna"}),
		lastAudit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_last_audit_timestamp_seconds",
			Help:      "Horário da última auditoria concluída",
		}),
	}

	reg.MustRegister(
		r.renders,
		r.fetchDuration,
		r.fetchFailures,
		r.droppedDates,
		r.datasetRows,
		r.datasetMissing,
		r.lastAudit,
	)

	return r
}

func (r *Recorder) ObserveFetch(elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.fetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.fetchFailures.Inc()
	}
}

func (r *Recorder) ObserveRender(disease string, droppedDates int) {
	if r == nil {
		return
	}
	r.renders.WithLabelValues(disease).Inc()
	r.droppedDates.Add(float64(droppedDates))
}

// SetDatasetAudit publica o resultado de uma auditoria. missing é indexado pelo nome da coluna.
func (r *Recorder) SetDatasetAudit(rows int, missing map[string]int, at time.Time) {
	if r == nil {
		return
	}
	r.datasetRows.Set(float64(rows))
	for column, count := range missing {
		r.datasetMissing.WithLabelValues(column).Set(float64(count))
	}
	r.lastAudit.Set(float64(at.Unix()))
}
