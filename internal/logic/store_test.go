package logic

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewStoreEmpty(t *testing.T) {
	s := NewStore()
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
	if states := s.States(); len(states) != 0 {
		t.Errorf("expected no states, got %d", len(states))
	}
}

func TestFirstReadingBelowThreshold(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())
	if changed {
		t.Errorf("expected no transition for dark first reading, got %v", tr)
	}

	st, ok := s.Get("153.110")
	if !ok {
		t.Fatal("expected state for new mote")
	}
	if st.LightOn {
		t.Error("expected light off at 100.0")
	}
	if st.Label != "B410" {
		t.Errorf("expected label B410, got %q", st.Label)
	}
	if st.LastValue != 100.0 {
		t.Errorf("expected last value 100.0, got %v", st.LastValue)
	}
	if !st.LastObservedAt.Equal(at) {
		t.Errorf("expected observation time %v, got %v", at, st.LastObservedAt)
	}
}

func TestFirstReadingAboveThreshold(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 250.0, ObservedAt: at}, DefaultTuning())
	if !changed {
		t.Fatal("expected a transition for a first reading already above the threshold")
	}
	if tr.Mote != "153.110" {
		t.Errorf("expected mote 153.110, got %q", tr.Mote)
	}
	if tr.Direction != TurnedOn {
		t.Errorf("expected turned_on, got %s", tr.Direction)
	}

	st, _ := s.Get("153.110")
	if !st.LightOn {
		t.Error("expected light on at 250.0")
	}
}

func TestFirstReadingAtThresholdStaysOff(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// The initial comparison is strictly greater-than.
	_, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 200.0, ObservedAt: at}, DefaultTuning())
	if changed {
		t.Error("expected no transition at exactly the threshold")
	}
	st, _ := s.Get("153.110")
	if st.LightOn {
		t.Error("expected light off at exactly 200.0")
	}
}

func TestRisingDeltaFlipsOn(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())

	tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 130.0, ObservedAt: at.Add(5 * time.Second)}, DefaultTuning())
	if !changed {
		t.Fatal("expected a transition for +30.0")
	}
	if tr.Direction != TurnedOn {
		t.Errorf("expected turned_on, got %s", tr.Direction)
	}

	// A small dip afterwards stays in the dead zone.
	tr, changed = s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 115.0, ObservedAt: at.Add(10 * time.Second)}, DefaultTuning())
	if changed {
		t.Errorf("expected no transition for -15.0, got %v", tr)
	}
	st, _ := s.Get("153.110")
	if !st.LightOn {
		t.Error("expected light still on after a dead-zone dip")
	}
	if st.LastValue != 115.0 {
		t.Errorf("expected last value updated to 115.0, got %v", st.LastValue)
	}
}

func TestFallingDeltaFlipsOff(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 250.0, ObservedAt: at}, DefaultTuning())

	tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 210.0, ObservedAt: at.Add(5 * time.Second)}, DefaultTuning())
	if !changed {
		t.Fatal("expected a transition for -40.0")
	}
	if tr.Direction != TurnedOff {
		t.Errorf("expected turned_off, got %s", tr.Direction)
	}
	st, _ := s.Get("153.110")
	if st.LightOn {
		t.Error("expected light off after the drop")
	}
}

func TestExactDeltaBoundaries(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())

	// Exactly +25.0 flips on.
	tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 125.0, ObservedAt: at.Add(5 * time.Second)}, DefaultTuning())
	if !changed || tr.Direction != TurnedOn {
		t.Fatalf("expected turned_on at exactly +25.0, got changed=%v tr=%v", changed, tr)
	}

	// Exactly -25.0 flips off.
	tr, changed = s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at.Add(10 * time.Second)}, DefaultTuning())
	if !changed || tr.Direction != TurnedOff {
		t.Fatalf("expected turned_off at exactly -25.0, got changed=%v tr=%v", changed, tr)
	}
}

func TestDeadZoneNeverFlickers(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())

	// Oscillate inside the dead zone.
	values := []float64{110.0, 90.0, 105.0, 85.0, 104.0, 95.0, 114.0, 100.0}
	for i, v := range values {
		tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: v, ObservedAt: at.Add(time.Duration(i+1) * 5 * time.Second)}, DefaultTuning())
		if changed {
			t.Errorf("step %d (value %v): expected no transition, got %v", i, v, tr)
		}
	}

	st, _ := s.Get("153.110")
	if st.LightOn {
		t.Error("expected light still off after dead-zone noise")
	}
	if st.LastValue != 100.0 {
		t.Errorf("expected last value 100.0, got %v", st.LastValue)
	}
}

func TestGradualRiseNeverFlips(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Each step is +20, under the delta, even though the absolute value
	// climbs far past the initial threshold.
	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())
	for i := 1; i <= 10; i++ {
		v := 100.0 + float64(i)*20.0
		tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: v, ObservedAt: at.Add(time.Duration(i) * 5 * time.Second)}, DefaultTuning())
		if changed {
			t.Errorf("step %d (value %v): expected no transition, got %v", i, v, tr)
		}
	}

	st, _ := s.Get("153.110")
	if st.LightOn {
		t.Error("expected light off after a gradual rise")
	}
	if st.LastValue != 300.0 {
		t.Errorf("expected last value 300.0, got %v", st.LastValue)
	}
}

func TestOnOffOnSequence(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tun := DefaultTuning()

	steps := []struct {
		value    float64
		wantDir  Direction
		wantFlip bool
	}{
		{100.0, "", false},
		{300.0, TurnedOn, true},
		{290.0, "", false},
		{120.0, TurnedOff, true},
		{118.0, "", false},
		{400.0, TurnedOn, true},
	}

	for i, step := range steps {
		tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: step.value, ObservedAt: at.Add(time.Duration(i) * 5 * time.Second)}, tun)
		if changed != step.wantFlip {
			t.Fatalf("step %d (value %v): changed=%v, want %v", i, step.value, changed, step.wantFlip)
		}
		if changed && tr.Direction != step.wantDir {
			t.Errorf("step %d: direction %s, want %s", i, tr.Direction, step.wantDir)
		}
	}
}

func TestCustomTuning(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tun := Tuning{Threshold: 50.0, DeltaOn: 10.0, DeltaOff: -10.0}

	_, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 60.0, ObservedAt: at}, tun)
	if !changed {
		t.Error("expected transition at 60.0 with threshold 50.0")
	}

	tr, changed := s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 49.0, ObservedAt: at.Add(5 * time.Second)}, tun)
	if !changed || tr.Direction != TurnedOff {
		t.Errorf("expected turned_off for -11.0 with delta off -10.0, got changed=%v tr=%v", changed, tr)
	}
}

func TestLabelTracksLatestReading(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())
	s.Apply(Reading{Mote: "153.110", Label: "B411", Value: 101.0, ObservedAt: at.Add(5 * time.Second)}, DefaultTuning())

	st, _ := s.Get("153.110")
	if st.Label != "B411" {
		t.Errorf("expected label to follow the latest reading, got %q", st.Label)
	}
}

func TestStatesSortedByMote(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, mote := range []string{"153.112", "153.110", "153.111"} {
		s.Apply(Reading{Mote: mote, Label: "x", Value: 100.0, ObservedAt: at}, DefaultTuning())
	}

	states := s.States()
	if len(states) != 3 {
		t.Fatalf("expected 3 states, got %d", len(states))
	}
	want := []string{"153.110", "153.111", "153.112"}
	for i, mote := range want {
		if states[i].Mote != mote {
			t.Errorf("position %d: expected %s, got %s", i, mote, states[i].Mote)
		}
	}
}

func TestStatesReturnsCopies(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Apply(Reading{Mote: "153.110", Label: "B410", Value: 100.0, ObservedAt: at}, DefaultTuning())

	states := s.States()
	states[0].LightOn = true
	states[0].LastValue = 999.0

	st, _ := s.Get("153.110")
	if st.LightOn || st.LastValue != 100.0 {
		t.Error("mutating a returned state must not affect the store")
	}
}

func TestGetUnknownMote(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("153.110"); ok {
		t.Error("expected no state for an unknown mote")
	}
}

func TestConcurrentApplyDistinctMotes(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mote := fmt.Sprintf("153.%03d", i)
			for j := 0; j < 20; j++ {
				s.Apply(Reading{Mote: mote, Label: "x", Value: float64(j), ObservedAt: at}, DefaultTuning())
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 motes, got %d", s.Len())
	}
}

func TestConcurrentApplySameMoteNotTorn(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Every writer applies a matched value/label pair. Whatever order the
	// applies land in, a read must never see one field from one writer and
	// the other field from another.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := float64(i)
			s.Apply(Reading{Mote: "153.110", Label: fmt.Sprintf("pair-%d", i), Value: v, ObservedAt: at}, DefaultTuning())
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			st, ok := s.Get("153.110")
			if !ok {
				continue
			}
			want := fmt.Sprintf("pair-%d", int(st.LastValue))
			if st.Label != want {
				t.Errorf("torn read: value %v with label %q", st.LastValue, st.Label)
				return
			}
		}
	}()

	wg.Wait()
	<-done
}

func TestTransitionFor(t *testing.T) {
	tests := []struct {
		on   bool
		want Direction
	}{
		{true, TurnedOn},
		{false, TurnedOff},
	}

	for _, tt := range tests {
		got := transitionFor("153.110", tt.on)
		if got.Direction != tt.want {
			t.Errorf("transitionFor(on=%v) = %s, want %s", tt.on, got.Direction, tt.want)
		}
		if got.Mote != "153.110" {
			t.Errorf("transitionFor mote = %q, want 153.110", got.Mote)
		}
	}
}
