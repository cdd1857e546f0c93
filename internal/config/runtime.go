package config

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
)

// Settings is the runtime-overridable subset of the configuration. The
// poll engine reads it at the top of every cycle, so a patch takes effect
// on the next cycle without a restart.
type Settings struct {
	ServerURL            string
	PollInterval         time.Duration
	Tuning               logic.Tuning
	NotifyCooldown       time.Duration
	NotificationsEnabled bool
}

// Runtime stores the current settings behind a lock.
type Runtime struct {
	mu sync.RWMutex
	s  Settings
}

// NewRuntime seeds the runtime settings from the startup configuration.
func NewRuntime(cfg Config) *Runtime {
	return &Runtime{s: Settings{
		ServerURL:    cfg.ServerURL,
		PollInterval: cfg.PollInterval,
		Tuning: logic.Tuning{
			Threshold: cfg.LightThreshold,
			DeltaOn:   cfg.DeltaOn,
			DeltaOff:  cfg.DeltaOff,
		},
		NotifyCooldown:       cfg.NotifyCooldown,
		NotificationsEnabled: cfg.NotificationsEnabled,
	}}
}

// Get returns the current settings.
func (r *Runtime) Get() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s
}

// Patch is a partial settings update. Nil fields are left unchanged.
type Patch struct {
	ServerURL            *string  `json:"server_url"`
	PollIntervalMs       *int64   `json:"poll_interval_ms"`
	LightThreshold       *float64 `json:"light_threshold"`
	DeltaOn              *float64 `json:"delta_on"`
	DeltaOff             *float64 `json:"delta_off"`
	CooldownMs           *int64   `json:"cooldown_ms"`
	NotificationsEnabled *bool    `json:"notifications_enabled"`
}

// Apply validates the patch and merges it into the current settings,
// returning the result. On error nothing is changed.
func (r *Runtime) Apply(p Patch) (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.s

	if p.ServerURL != nil {
		u, err := url.Parse(*p.ServerURL)
		if err != nil || !u.IsAbs() {
			return Settings{}, errors.New("server_url must be an absolute URL")
		}
		next.ServerURL = *p.ServerURL
	}
	if p.PollIntervalMs != nil {
		if *p.PollIntervalMs < 1000 {
			return Settings{}, errors.New("poll_interval_ms must be at least 1000")
		}
		next.PollInterval = time.Duration(*p.PollIntervalMs) * time.Millisecond
	}
	if p.LightThreshold != nil {
		next.Tuning.Threshold = *p.LightThreshold
	}
	if p.DeltaOn != nil {
		if *p.DeltaOn <= 0 {
			return Settings{}, errors.New("delta_on must be positive")
		}
		next.Tuning.DeltaOn = *p.DeltaOn
	}
	if p.DeltaOff != nil {
		if *p.DeltaOff >= 0 {
			return Settings{}, errors.New("delta_off must be negative")
		}
		next.Tuning.DeltaOff = *p.DeltaOff
	}
	if p.CooldownMs != nil {
		if *p.CooldownMs < 0 {
			return Settings{}, errors.New("cooldown_ms must not be negative")
		}
		next.NotifyCooldown = time.Duration(*p.CooldownMs) * time.Millisecond
	}
	if p.NotificationsEnabled != nil {
		next.NotificationsEnabled = *p.NotificationsEnabled
	}

	r.s = next
	return next, nil
}
