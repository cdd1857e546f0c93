package mqtt

import (
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
)

// AlertSink adapts a Publisher into the dispatcher's delivery channel.
type AlertSink struct {
	pub  Publisher
	conn ConnectionStatus
}

// NewAlertSink creates an alert sink backed by the given publisher.
func NewAlertSink(pub Publisher, conn ConnectionStatus) *AlertSink {
	return &AlertSink{pub: pub, conn: conn}
}

// Deliver publishes the alert on the alerts topic. While the broker
// connection is down it reports notify.ErrUnavailable without attempting
// a publish.
func (s *AlertSink) Deliver(alert notify.Alert) error {
	if !s.conn.IsConnected() {
		return notify.ErrUnavailable
	}
	return s.pub.PublishAlert(alert)
}
