package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workshop_registrations_created_total",
		Help: "Total number of registrations created",
	})

	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workshop_payments_confirmed_total",
		Help: "Registrations that moved from pending to completed",
	})

	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workshop_notifications_dispatched_total",
		Help: "Notification dispatch attempts by channel, kind and outcome",
	}, []string{"channel", "kind", "outcome"})

	OutboxPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "workshop_outbox_pending",
		Help: "Notification intents waiting for delivery",
	})

	WhatsAppQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "workshop_whatsapp_queue_depth",
		Help: "Messages waiting for the WhatsApp client to become ready",
	})

	WhatsAppState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "workshop_whatsapp_state",
		Help: "1 for the current WhatsApp client state, 0 otherwise",
	}, []string{"state"})
)

func ObserveDispatch(channel, kind, outcome string) {
	NotificationsDispatched.WithLabelValues(channel, kind, outcome).Inc()
}

// SetWhatsAppState flips the state gauge so exactly one label reads 1.
func SetWhatsAppState(current string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		WhatsAppState.WithLabelValues(s).Set(v)
	}
}
