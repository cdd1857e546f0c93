// Command amio-monitor polls the AMIO sensor feed and publishes light
// state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/config"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/feed"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/gpio"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/mqtt"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/poll"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/web"
)

func main() {
	godotenv.Load()
	cfg := config.FromEnv()

	// Flags override the environment.
	flag.StringVar(&cfg.ServerURL, "url", cfg.ServerURL, "Sensor feed URL")
	flag.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Feed polling interval")
	flag.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker address")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP status address (empty to disable)")
	flag.Float64Var(&cfg.LightThreshold, "threshold", cfg.LightThreshold, "Light level above which a newly seen mote counts as lit")
	flag.IntVar(&cfg.BuzzerPin, "buzzer-pin", cfg.BuzzerPin, "BCM pin number for the alert buzzer (-1 to disable)")
	printState := flag.Bool("print-state", false, "Fetch the feed once, print sensor states, and exit")

	flag.Parse()

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	client := feed.NewRealClient(cfg.ConnectTimeout, cfg.ReadTimeout)

	// Print state mode
	if printState {
		return printCurrentState(os.Stdout, client, cfg)
	}

	store := logic.NewStore()
	settings := config.NewRuntime(cfg)

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.Broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize the buzzer only when a pin is configured; most hosts
	// run without one.
	var buzzer notify.Buzzer
	if cfg.BuzzerPin >= 0 {
		b, err := gpio.NewRealBuzzer(cfg.BuzzerPin)
		if err != nil {
			return fmt.Errorf("init buzzer: %w", err)
		}
		defer b.Close()
		buzzer = b
	}

	dispatcher := notify.NewDispatcher(mqtt.NewAlertSink(publisher, publisher), buzzer)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:   cfg.Broker,
		HTTPAddr: cfg.HTTPAddr,
	})

	engine := &poll.Engine{
		Client:     client,
		Store:      store,
		Dispatcher: dispatcher,
		Publisher:  publisher,
		Conn:       publisher,
		Tracker:    tracker,
		Settings:   settings,
	}
	scheduler := poll.NewScheduler(engine)

	publishStartup(publisher, tracker, store)

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, store, settings, scheduler)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: url=%s poll=%v broker=%s threshold=%.1f", cfg.ServerURL, cfg.PollInterval, cfg.Broker, cfg.LightThreshold)

	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	s := <-sigCh
	log.Printf("received %v, shutting down", s)

	if err := scheduler.Stop(); err != nil {
		log.Printf("stop scheduler: %v", err)
	}
	publishShutdown(publisher, publisher, tracker, store, signalName(s))
	return nil
}

// liveView assembles the view published with system events from whatever
// the store holds at that moment.
func liveView(store *logic.Store, snap status.Snapshot) status.AggregateView {
	return status.BuildView(store.States(), status.StatusOrWaiting(snap.StatusMessage), snap.Now)
}

// publishStartup announces the process with a retained system event
// carrying the full status snapshot.
func publishStartup(publisher mqtt.Publisher, tracker *status.Tracker, store *logic.Store) {
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, liveView(store, snap), "STARTUP", ""),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}
}

// publishShutdown announces the shutdown with a retained system event
// naming the signal that caused it.
func publishShutdown(publisher mqtt.Publisher, conn mqtt.ConnectionStatus, tracker *status.Tracker, store *logic.Store, reason string) {
	tracker.SetMQTTConnected(conn.IsConnected())
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, liveView(store, snap), "SHUTDOWN", reason),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// printCurrentState fetches the feed once and prints every sensor's
// light state, one line per mote.
func printCurrentState(w io.Writer, client feed.Client, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout+cfg.ReadTimeout)
	defer cancel()

	body, err := client.Fetch(ctx, cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	readings, err := feed.Parse(body)
	if err != nil {
		return fmt.Errorf("parse feed: %w", err)
	}

	store := logic.NewStore()
	tun := logic.Tuning{
		Threshold: cfg.LightThreshold,
		DeltaOn:   cfg.DeltaOn,
		DeltaOff:  cfg.DeltaOff,
	}
	for _, r := range readings {
		store.Apply(r, tun)
	}

	states := store.States()
	if len(states) == 0 {
		fmt.Fprintln(w, "no sensors in feed")
		return nil
	}
	for _, st := range states {
		fmt.Fprintf(w, "%s (%s): %s value=%.1f\n", st.Mote, st.Label, stateString(st.LightOn), st.LastValue)
	}
	return nil
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
