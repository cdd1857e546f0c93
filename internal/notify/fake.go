package notify

// FakeSink is a test double that records delivered alerts.
type FakeSink struct {
	// Alerts holds every alert the sink accepted.
	Alerts []Alert

	// Attempts counts Deliver calls, accepted or not.
	Attempts int

	// DeliverError, if set, will be returned by Deliver()
	DeliverError error
}

// Deliver records the alert unless an error is injected.
func (f *FakeSink) Deliver(a Alert) error {
	f.Attempts++
	if f.DeliverError != nil {
		return f.DeliverError
	}
	f.Alerts = append(f.Alerts, a)
	return nil
}

// Reset clears recorded alerts and any injected error.
func (f *FakeSink) Reset() {
	f.Alerts = nil
	f.Attempts = 0
	f.DeliverError = nil
}
