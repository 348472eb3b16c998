package state

import "sync"

type Battery struct {
	Level    int
	Charging bool
	// Known is false until the first battery notification arrives.
	Known bool
}

// ModeState is the display mode the watch face is rendered in.
type ModeState struct {
	Ambient        bool
	Visible        bool
	LowBitRequired bool
	BurnInRequired bool
	Muted          bool
	Battery        Battery
}

// ShouldRun reports whether the per-second redraw timer should be running.
func (mode ModeState) ShouldRun() bool {
	return mode.Visible && !mode.Ambient
}

// LowBitAmbient reports whether the current frame must use the restricted palette.
func (mode ModeState) LowBitAmbient() bool {
	return mode.Ambient && mode.LowBitRequired
}

// Store holds the ModeState. It is written by the engine goroutine only;
// the mutex exists so the web API can take snapshots from its own goroutines.
// Every setter reports whether the value actually changed.
type Store struct {
	mu         sync.RWMutex
	state      ModeState
	properties bool
}

func NewStore() *Store {
	return &Store{}
}

func (store *Store) Snapshot() ModeState {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetVisible(visible bool) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Visible == visible {
		return false
	}
	store.state.Visible = visible
	return true
}

func (store *Store) SetAmbient(ambient bool) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Ambient == ambient {
		return false
	}
	store.state.Ambient = ambient
	return true
}

func (store *Store) SetMuted(muted bool) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Muted == muted {
		return false
	}
	store.state.Muted = muted
	return true
}

// SetProperties records the device constraints. Only the first delivery is
// applied; later deliveries return applied=false and leave the state untouched.
func (store *Store) SetProperties(lowBit, burnIn bool) (applied bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.properties {
		return false
	}
	store.properties = true
	store.state.LowBitRequired = lowBit
	store.state.BurnInRequired = burnIn
	return true
}

func (store *Store) SetBattery(level int, charging bool) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	next := Battery{Level: level, Charging: charging, Known: true}
	if store.state.Battery == next {
		return false
	}
	store.state.Battery = next
	return true
}
