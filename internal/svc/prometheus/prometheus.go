package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Instance interface {
	Register(r prometheus.Registerer)

	CurrentConnections() prometheus.Gauge
	TotalConnections() prometheus.Counter
	MessagesSent() prometheus.Counter
	EventsDispatched() prometheus.Counter
}

type Options struct {
	Labels prometheus.Labels
}

func New(o Options) Instance {
	return &promInst{
		currentConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "chat_gateway_current_connections",
			Help:        "The number of websocket connections currently held open",
			ConstLabels: o.Labels,
		}),
		totalConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "chat_gateway_connections_total",
			Help:        "The total number of websocket connections accepted",
			ConstLabels: o.Labels,
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "chat_messages_sent_total",
			Help:        "The total number of messages persisted",
			ConstLabels: o.Labels,
		}),
		eventsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "chat_events_dispatched_total",
			Help:        "The total number of events written to sessions",
			ConstLabels: o.Labels,
		}),
	}
}

type promInst struct {
	currentConnections prometheus.Gauge
	totalConnections   prometheus.Counter
	messagesSent       prometheus.Counter
	eventsDispatched   prometheus.Counter
}

func (m *promInst) Register(r prometheus.Registerer) {
	r.MustRegister(
		m.currentConnections,
		m.totalConnections,
		m.messagesSent,
		m.eventsDispatched,
	)
}

func (m *promInst) CurrentConnections() prometheus.Gauge {
	return m.currentConnections
}

func (m *promInst) TotalConnections() prometheus.Counter {
	return m.totalConnections
}

func (m *promInst) MessagesSent() prometheus.Counter {
	return m.messagesSent
}

func (m *promInst) EventsDispatched() prometheus.Counter {
	return m.eventsDispatched
}
