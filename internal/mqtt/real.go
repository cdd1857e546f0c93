package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// bufferCapacity bounds the number of messages held while disconnected.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Transition and system
// messages are buffered while the broker is unreachable and replayed in
// order on reconnect; state and alert messages go stale too quickly to be
// worth replaying and are dropped instead.
type RealPublisher struct {
	client paho.Client

	mu     sync.Mutex
	buffer *msgBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
// If the broker is unreachable the publisher is still returned and the
// client keeps retrying in the background, buffering as it goes.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		buffer: newMsgBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("amio-monitor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.replayBuffered()
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: broker %s not reachable yet, retrying in background", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishEvent sends a light transition to the MQTT broker.
func (p *RealPublisher) PublishEvent(event TransitionEvent) error {
	payload, err := FormatEventPayload(event)
	if err != nil {
		return fmt.Errorf("format event payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained, buffered while disconnected
	return p.publish(TopicEvents, 0, false, payload, true)
}

// PublishState sends the per-cycle aggregate snapshot to the MQTT broker.
func (p *RealPublisher) PublishState(view status.AggregateView) error {
	payload, err := FormatStatePayload(view)
	if err != nil {
		return fmt.Errorf("format state payload: %w", err)
	}

	// QoS 0, superseded every cycle so never buffered
	return p.publish(TopicState, 0, false, payload, false)
}

// PublishAlert sends a grouped alert to the MQTT broker.
func (p *RealPublisher) PublishAlert(alert notify.Alert) error {
	payload, err := FormatAlertPayload(alert)
	if err != nil {
		return fmt.Errorf("format alert payload: %w", err)
	}

	// QoS 1 (at-least-once); failures surface to the dispatcher, which
	// retries on a later cycle rather than replaying a stale alert
	return p.publish(TopicAlerts, 1, false, payload, false)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) - we want lifecycle events to be delivered
	return p.publish(TopicSystem, 1, event.Retained, payload, true)
}

// IsConnected reports whether the broker connection is currently up.
// paho's own IsConnected answers true while a reconnect is still pending,
// so this checks the open socket instead.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte, buffered bool) error {
	if !p.client.IsConnectionOpen() {
		if buffered {
			p.mu.Lock()
			p.buffer.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
			p.mu.Unlock()
			return nil
		}
		return fmt.Errorf("not connected to broker")
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// replayBuffered flushes everything stored while disconnected. Runs on the
// paho connect callback goroutine.
func (p *RealPublisher) replayBuffered() {
	p.mu.Lock()
	msgs := p.buffer.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}

	log.Printf("mqtt: connected, replaying %d buffered messages", len(msgs))
	for _, msg := range msgs {
		token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", msg.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay failed on %s: %v", msg.topic, err)
		}
	}
}
