package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"visit-bot/internal/domain/port"
)

// Metrics счётчики бота в собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	VisitsSaved     prometheus.Counter
	VisitRejections *prometheus.CounterVec
	Reports         *prometheus.CounterVec
	Broadcasts      prometheus.Counter
}

// NewMetrics создаёт реестр со счётчиками бота и стандартными метриками процесса
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		VisitsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitbot_visits_saved_total",
			Help: "Total number of visits persisted",
		}),
		VisitRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visitbot_visit_rejections_total",
			Help: "Total number of rejected visit inputs by reason",
		}, []string{"reason"}),
		Reports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visitbot_reports_total",
			Help: "Total number of report jobs by result",
		}, []string{"result"}),
		Broadcasts: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitbot_broadcasts_total",
			Help: "Total number of all-submitted notices sent",
		}),
	}
}

// TrackConversations публикует количество активных диалогов
func (m *Metrics) TrackConversations(count func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "visitbot_active_conversations",
		Help: "Number of participants with an unfinished visit dialogue",
	}, func() float64 {
		return float64(count())
	})
}

// Registry реестр для /metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) VisitSaved() {
	m.VisitsSaved.Inc()
}

func (m *Metrics) VisitRejected(reason string) {
	m.VisitRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReportGenerated(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.Reports.WithLabelValues(result).Inc()
}

func (m *Metrics) BroadcastSent() {
	m.Broadcasts.Inc()
}

var _ port.Metrics = (*Metrics)(nil)
