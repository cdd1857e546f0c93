// Package poll runs the periodic fetch cycle and the scheduler driving it.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/config"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/feed"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/metrics"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/mqtt"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
)

// Engine executes one full monitor cycle: fetch the feed, parse it, apply
// readings to the store, dispatch a grouped alert, and publish the results.
// Publisher, Conn, and Tracker may be nil; the engine skips them.
type Engine struct {
	Client     feed.Client
	Store      *logic.Store
	Dispatcher *notify.Dispatcher
	Publisher  mqtt.Publisher
	Conn       mqtt.ConnectionStatus
	Tracker    *status.Tracker
	Settings   *config.Runtime
}

// RunCycle performs one fetch-and-process pass. Failures never propagate;
// they become the cycle's status message on an otherwise unchanged store.
func (e *Engine) RunCycle(ctx context.Context, now time.Time) {
	settings := e.Settings.Get()
	started := time.Now()

	message := e.process(ctx, now, settings)

	metrics.RecordCycle(time.Since(started))
	if e.Tracker != nil {
		e.Tracker.RecordCycle(message, now)
		if e.Conn != nil {
			e.Tracker.SetMQTTConnected(e.Conn.IsConnected())
		}
	}

	e.publishView(message, now)
}

// PublishCurrent pushes a snapshot of the tracked state without fetching.
// The tracker is left alone: a refresh is not a cycle.
func (e *Engine) PublishCurrent(now time.Time) {
	e.publishView("Current state", now)
}

func (e *Engine) process(ctx context.Context, now time.Time, settings config.Settings) string {
	body, err := e.Client.Fetch(ctx, settings.ServerURL)
	if err != nil {
		metrics.IncFetchErrors()
		log.Printf("poll: fetch failed: %v", err)
		var fe *feed.FetchError
		if errors.As(err, &fe) {
			if fe.Status != 0 {
				return fmt.Sprintf("HTTP Error: %d", fe.Status)
			}
			return fmt.Sprintf("Fetch error: %v", fe.Err)
		}
		return fmt.Sprintf("Fetch error: %v", err)
	}

	readings, err := feed.Parse(body)
	if err != nil {
		metrics.IncParseErrors()
		log.Printf("poll: parse failed: %v", err)
		var pe *feed.ParseError
		if errors.As(err, &pe) {
			return fmt.Sprintf("Parse error: %v", pe.Err)
		}
		return fmt.Sprintf("Parse error: %v", err)
	}
	metrics.AddReadings(len(readings))

	var transitions []logic.Transition
	for _, r := range readings {
		tr, changed := e.Store.Apply(r, settings.Tuning)
		if !changed {
			continue
		}
		transitions = append(transitions, tr)

		log.Printf("event: %s %s (value=%.1f)", tr.Mote, tr.Direction, r.Value)
		if tr.Direction == logic.TurnedOn {
			metrics.IncTransitionOn()
		} else {
			metrics.IncTransitionOff()
		}

		if e.Publisher != nil {
			event := mqtt.TransitionEvent{
				Timestamp: now,
				Mote:      tr.Mote,
				Direction: tr.Direction,
				Value:     r.Value,
			}
			if err := e.Publisher.PublishEvent(event); err != nil {
				log.Printf("publish error: %v", err)
				metrics.IncPublishErrors()
			}
		}
	}

	if e.Tracker != nil {
		e.Tracker.RecordTransitions(transitions)
	}

	if len(transitions) > 0 {
		outcome := e.Dispatcher.Dispatch(now, transitions, notify.Options{
			Cooldown: settings.NotifyCooldown,
			Enabled:  settings.NotificationsEnabled,
		})
		if e.Tracker != nil {
			e.Tracker.RecordAlert(outcome)
		}
		switch outcome {
		case notify.OutcomeDelivered:
			metrics.IncAlertDelivered()
		case notify.OutcomeSuppressed:
			metrics.IncAlertSuppressed()
		case notify.OutcomeUnavailable:
			metrics.IncAlertUnavailable()
		}
	}

	return "Data fetched successfully"
}

// publishView rebuilds the aggregate view and pushes it to the state topic.
func (e *Engine) publishView(message string, now time.Time) {
	view := status.BuildView(e.Store.States(), message, now)

	metrics.SetSensorsTracked(view.SensorCount)
	metrics.SetLightsOn(view.LightsOnCount)

	if e.Publisher == nil {
		return
	}
	if err := e.Publisher.PublishState(view); err != nil {
		log.Printf("publish state error: %v", err)
		metrics.IncPublishErrors()
	}
}
