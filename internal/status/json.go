package status

import (
	"encoding/json"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
)

// SensorJSON is the wire form of one tracked sensor. Timestamps are
// epoch milliseconds, matching the feed.
type SensorJSON struct {
	Mote      string  `json:"mote"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	LightOn   bool    `json:"light_on"`
}

// NewSensorJSON converts a sensor state to its wire form.
func NewSensorJSON(st logic.SensorState) SensorJSON {
	return SensorJSON{
		Mote:      st.Mote,
		Label:     st.Label,
		Value:     st.LastValue,
		Timestamp: st.LastObservedAt.UnixMilli(),
		LightOn:   st.LightOn,
	}
}

// State converts the wire form back into a sensor state.
func (sj SensorJSON) State() logic.SensorState {
	return logic.SensorState{
		Mote:           sj.Mote,
		Label:          sj.Label,
		LastValue:      sj.Value,
		LastObservedAt: time.UnixMilli(sj.Timestamp),
		LightOn:        sj.LightOn,
	}
}

// ViewJSON is the wire form of an AggregateView.
type ViewJSON struct {
	Status        string       `json:"status"`
	Timestamp     int64        `json:"timestamp"`
	SensorCount   int          `json:"sensor_count"`
	LightsOnCount int          `json:"lights_on_count"`
	Sensors       []SensorJSON `json:"sensors"`
}

// NewViewJSON converts a view to its wire form.
func NewViewJSON(v AggregateView) ViewJSON {
	sensors := make([]SensorJSON, 0, len(v.Sensors))
	for _, st := range v.Sensors {
		sensors = append(sensors, NewSensorJSON(st))
	}
	return ViewJSON{
		Status:        v.Status,
		Timestamp:     v.GeneratedAt.UnixMilli(),
		SensorCount:   v.SensorCount,
		LightsOnCount: v.LightsOnCount,
		Sensors:       sensors,
	}
}

// View converts the wire form back into an AggregateView.
func (vj ViewJSON) View() AggregateView {
	sensors := make([]logic.SensorState, 0, len(vj.Sensors))
	for _, sj := range vj.Sensors {
		sensors = append(sensors, sj.State())
	}
	return AggregateView{
		Status:        vj.Status,
		GeneratedAt:   time.UnixMilli(vj.Timestamp),
		SensorCount:   vj.SensorCount,
		LightsOnCount: vj.LightsOnCount,
		Sensors:       sensors,
	}
}

// FormatView returns the compact JSON published on the state topic.
func FormatView(v AggregateView) []byte {
	data, _ := json.Marshal(NewViewJSON(v))
	return data
}

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Monitor StatusInner `json:"monitor"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	Cycles        int             `json:"cycles"`
	LastCycle     string          `json:"last_cycle,omitempty"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Transitions   TransitionsJSON `json:"transition_counts"`
	Alerts        AlertsJSON      `json:"alert_counts"`
	Config        ConfigJSON      `json:"config"`
	View          ViewJSON        `json:"view"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// TransitionsJSON is the JSON representation of transition counts.
type TransitionsJSON struct {
	On  int `json:"turned_on"`
	Off int `json:"turned_off"`
}

// AlertsJSON is the JSON representation of alert outcome counts.
type AlertsJSON struct {
	Delivered   int `json:"delivered"`
	Suppressed  int `json:"suppressed"`
	Unavailable int `json:"unavailable"`
}

// ConfigJSON is the JSON representation of fixed daemon config.
type ConfigJSON struct {
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
}

func buildInner(snap Snapshot, view AggregateView) StatusInner {
	inner := StatusInner{
		Status:        StatusOrWaiting(snap.StatusMessage),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Cycles:        snap.Cycles,
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Transitions:   TransitionsJSON{On: snap.Transitions.On, Off: snap.Transitions.Off},
		Alerts: AlertsJSON{
			Delivered:   snap.Alerts.Delivered,
			Suppressed:  snap.Alerts.Suppressed,
			Unavailable: snap.Alerts.Unavailable,
		},
		Config: ConfigJSON{Broker: snap.Config.Broker, HTTPAddr: snap.Config.HTTPAddr},
		View:   NewViewJSON(view),
	}
	if !snap.LastCycleAt.IsZero() {
		inner.LastCycle = snap.LastCycleAt.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatStatus returns the JSON status for the web endpoint (no event/reason).
func FormatStatus(snap Snapshot, view AggregateView) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Monitor: buildInner(snap, view)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, view AggregateView, event, reason string) []byte {
	inner := buildInner(snap, view)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Monitor: inner})
	return data
}
