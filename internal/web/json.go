package web

import (
	"encoding/json"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/config"
)

// SettingsJSON is the wire form of the runtime tunables. Field names
// match config.Patch, so a GET body can be edited and POSTed back.
type SettingsJSON struct {
	ServerURL            string  `json:"server_url"`
	PollIntervalMs       int64   `json:"poll_interval_ms"`
	LightThreshold       float64 `json:"light_threshold"`
	DeltaOn              float64 `json:"delta_on"`
	DeltaOff             float64 `json:"delta_off"`
	CooldownMs           int64   `json:"cooldown_ms"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

// NewSettingsJSON converts runtime settings to their wire form.
func NewSettingsJSON(s config.Settings) SettingsJSON {
	return SettingsJSON{
		ServerURL:            s.ServerURL,
		PollIntervalMs:       s.PollInterval.Milliseconds(),
		LightThreshold:       s.Tuning.Threshold,
		DeltaOn:              s.Tuning.DeltaOn,
		DeltaOff:             s.Tuning.DeltaOff,
		CooldownMs:           s.NotifyCooldown.Milliseconds(),
		NotificationsEnabled: s.NotificationsEnabled,
	}
}

func formatSettings(s config.Settings) []byte {
	data, _ := json.MarshalIndent(NewSettingsJSON(s), "", "  ")
	return data
}
