package client

import "sync"

type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

const (
	IdleLabel    = "Call API (/hello)"
	LoadingLabel = "Calling API..."
)

type Snapshot struct {
	Phase   Phase
	Message string
	Details string
}

func (s Snapshot) Loading() bool {
	return s.Phase == Loading
}

// ButtonLabel is the trigger's text; the trigger is disabled while loading.
func (s Snapshot) ButtonLabel() string {
	if s.Loading() {
		return LoadingLabel
	}
	return IdleLabel
}

// State is the display state of the caller widget.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// Begin moves to Loading and clears the previous result. It refuses while a
// call is already loading.
func (s *State) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Phase == Loading {
		return false
	}
	s.snap = Snapshot{Phase: Loading}
	return true
}

func (s *State) Finish(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := Succeeded
	if o.Failed() {
		phase = Failed
	}
	s.snap = Snapshot{Phase: phase, Message: o.Message, Details: o.Details}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
