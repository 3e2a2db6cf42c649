package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yashgajera132/blockchain-voting-system/config"
)

const (
	// Reconciliation
	MetricElectionsCreated = "elections_created"
	MetricMirrorFailed     = "mirror_failed_count"
	MetricMergeDuration    = "merge_duration"
	MetricVotesAccepted    = "votes_accepted"
	MetricDuplicateVotes   = "duplicate_votes_rejected"
	MetricIneligibleVotes  = "ineligible_votes_rejected"
	// Monitor
	MetricSavedBlock        = "saved_block"
	MetricBackfilledRecords = "backfilled_records"
	MetricMonitorErr        = "monitor_error_count"
)

type MetricService struct {
	MetricsMap map[string]prometheus.Metric
	cfg        *config.Config
}

func NewMetricService(config *config.Config) *MetricService {
	ms := make(map[string]prometheus.Metric, 0)

	// Reconciliation
	electionsCreatedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricElectionsCreated,
		Help: "Elections created through the reconciled write path",
	})
	ms[MetricElectionsCreated] = electionsCreatedMetric
	prometheus.MustRegister(electionsCreatedMetric)

	mirrorFailedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricMirrorFailed,
		Help: "Confirmed ledger writes whose store mirror failed",
	})
	ms[MetricMirrorFailed] = mirrorFailedMetric
	prometheus.MustRegister(mirrorFailedMetric)

	mergeDurationMetric := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: MetricMergeDuration,
		Help: "Duration of one dual-source election list merge",
	})
	ms[MetricMergeDuration] = mergeDurationMetric
	prometheus.MustRegister(mergeDurationMetric)

	votesAcceptedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricVotesAccepted,
		Help: "Votes accepted on either path",
	})
	ms[MetricVotesAccepted] = votesAcceptedMetric
	prometheus.MustRegister(votesAcceptedMetric)

	duplicateVotesMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricDuplicateVotes,
		Help: "Vote attempts rejected as duplicates",
	})
	ms[MetricDuplicateVotes] = duplicateVotesMetric
	prometheus.MustRegister(duplicateVotesMetric)

	ineligibleVotesMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricIneligibleVotes,
		Help: "Vote attempts rejected as not eligible",
	})
	ms[MetricIneligibleVotes] = ineligibleVotesMetric
	prometheus.MustRegister(ineligibleVotesMetric)

	// Monitor
	savedBlockMetric := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricSavedBlock,
		Help: "Saved checkpoint block height in database",
	})
	ms[MetricSavedBlock] = savedBlockMetric
	prometheus.MustRegister(savedBlockMetric)

	backfilledRecordsMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricBackfilledRecords,
		Help: "Store rows backfilled from contract events",
	})
	ms[MetricBackfilledRecords] = backfilledRecordsMetric
	prometheus.MustRegister(backfilledRecordsMetric)

	monitorErrCountMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricMonitorErr,
		Help: "Monitor error count",
	})
	ms[MetricMonitorErr] = monitorErrCountMetric
	prometheus.MustRegister(monitorErrCountMetric)

	return &MetricService{
		MetricsMap: ms,
		cfg:        config,
	}
}

func (m *MetricService) Start() {
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(fmt.Sprintf(":%d", m.cfg.MetricsConfig.Port), nil)
	if err != nil {
		panic(err)
	}
}

// Reconciliation
func (m *MetricService) IncElectionsCreated() {
	m.MetricsMap[MetricElectionsCreated].(prometheus.Counter).Inc()
}

func (m *MetricService) IncMirrorFailed() {
	m.MetricsMap[MetricMirrorFailed].(prometheus.Counter).Inc()
}

func (m *MetricService) SetMergeDuration(duration time.Duration) {
	m.MetricsMap[MetricMergeDuration].(prometheus.Histogram).Observe(duration.Seconds())
}

func (m *MetricService) IncVotesAccepted() {
	m.MetricsMap[MetricVotesAccepted].(prometheus.Counter).Inc()
}

func (m *MetricService) IncDuplicateVotes() {
	m.MetricsMap[MetricDuplicateVotes].(prometheus.Counter).Inc()
}

func (m *MetricService) IncIneligibleVotes() {
	m.MetricsMap[MetricIneligibleVotes].(prometheus.Counter).Inc()
}

// Monitor
func (m *MetricService) SetSavedBlock(height uint64) {
	m.MetricsMap[MetricSavedBlock].(prometheus.Gauge).Set(float64(height))
}

func (m *MetricService) IncBackfilledRecords() {
	m.MetricsMap[MetricBackfilledRecords].(prometheus.Counter).Inc()
}

func (m *MetricService) IncMonitorErr() {
	m.MetricsMap[MetricMonitorErr].(prometheus.Counter).Inc()
}
