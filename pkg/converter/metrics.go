package converter

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

// PushGatewayEnv names the environment variable holding the push gateway URL.
const PushGatewayEnv = "SMSXML2HTML_PROMETHEUS_PUSHGATEWAY"

var recordsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "smsxml2html_records_parsed_total",
	Help: "Records read from backup files",
}, []string{"kind"})

var droppedMediaMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "smsxml2html_media_dropped_total",
	Help: "MMS image parts left out of the archive because their type cannot be embedded",
}, []string{"mime"})

var conversationsMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "smsxml2html_conversations",
	Help: "Conversations written by the last run",
}, []string{"layout"})

var runMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "smsxml2html_run_millis",
	Help:    "Milliseconds spent in each stage of a conversion",
	Buckets: []float64{10, 100, 1000, 5000, 10000, 30000, 60000, 300000, 600000},
}, []string{"stage"})

// metricsPusher sends the run's metrics to a push gateway, grouped by a per-run id.
type metricsPusher struct {
	pusher *push.Pusher
}

func newMetricsPusher(gateway string) *metricsPusher {
	if gateway == "" {
		return nil
	}
	runID := uuid.New().String()
	log.WithField("run", runID).Debug("metrics will be pushed to prometheus gateway")

	pusher := push.New(gateway, "smsxml2html").Grouping("run", runID)
	pusher.Collector(recordsMetric)
	pusher.Collector(droppedMediaMetric)
	pusher.Collector(conversationsMetric)
	pusher.Collector(runMetric)
	return &metricsPusher{pusher: pusher}
}

// Push never fails the run; an unreachable gateway is only logged.
func (m *metricsPusher) Push() {
	if m == nil {
		return
	}
	log.Info("pushing metrics to prometheus gateway")
	if err := m.pusher.Add(); err != nil {
		log.WithError(err).Error("could not push to prometheus pushgateway")
	} else {
		log.Info("successfully pushed metrics to prometheus gateway")
	}
}
