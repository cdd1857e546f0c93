package logic

import (
	"sort"
	"sync"
)

// Store tracks the latest state of every mote seen so far. Applies for
// different motes may run concurrently; applies for the same mote are
// serialized, and a reader never sees a half-applied update.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	state SensorState
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Apply folds one reading into the store and reports whether the mote's
// light flipped. A mote seen for the first time starts on when its value
// exceeds tun.Threshold, and an already-lit first sighting counts as a
// turned_on transition. For a known mote the delta against the previous
// value decides: >= tun.DeltaOn forces on, <= tun.DeltaOff forces off,
// anything between leaves the flag alone. Value, label and timestamp
// update on every reading regardless.
func (s *Store) Apply(r Reading, tun Tuning) (Transition, bool) {
	s.mu.RLock()
	e := s.entries[r.Mote]
	s.mu.RUnlock()

	if e == nil {
		s.mu.Lock()
		e = s.entries[r.Mote]
		if e == nil {
			st := SensorState{
				Mote:           r.Mote,
				Label:          r.Label,
				LastValue:      r.Value,
				LastObservedAt: r.ObservedAt,
				LightOn:        r.Value > tun.Threshold,
			}
			s.entries[r.Mote] = &entry{state: st}
			s.mu.Unlock()
			if st.LightOn {
				return transitionFor(r.Mote, true), true
			}
			return Transition{}, false
		}
		// Lost an insert race; fall through and treat as an update.
		s.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	wasOn := e.state.LightOn
	delta := r.Value - e.state.LastValue
	switch {
	case delta >= tun.DeltaOn:
		e.state.LightOn = true
	case delta <= tun.DeltaOff:
		e.state.LightOn = false
	}
	e.state.LastValue = r.Value
	e.state.LastObservedAt = r.ObservedAt
	e.state.Label = r.Label

	if e.state.LightOn == wasOn {
		return Transition{}, false
	}
	return transitionFor(r.Mote, e.state.LightOn), true
}

// Get returns a copy of the tracked state for one mote.
func (s *Store) Get(mote string) (SensorState, bool) {
	s.mu.RLock()
	e := s.entries[mote]
	s.mu.RUnlock()
	if e == nil {
		return SensorState{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, true
}

// States returns a copy of every tracked sensor, sorted by mote id.
func (s *Store) States() []SensorState {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	states := make([]SensorState, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		states = append(states, e.state)
		e.mu.Unlock()
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Mote < states[j].Mote })
	return states
}

// Len reports how many distinct motes have been seen.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func transitionFor(mote string, on bool) Transition {
	if on {
		return Transition{Mote: mote, Direction: TurnedOn}
	}
	return Transition{Mote: mote, Direction: TurnedOff}
}
