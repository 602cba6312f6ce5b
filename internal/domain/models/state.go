package models

import "time"

// Phase is the lifecycle position of a portfolio view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ViewState is Idle, Loading, Loaded or Error(kind). Err is set only in PhaseError.
type ViewState struct {
	Phase Phase
	Err   *AppError
}

var (
	StateIdle    = ViewState{Phase: PhaseIdle}
	StateLoading = ViewState{Phase: PhaseLoading}
	StateLoaded  = ViewState{Phase: PhaseLoaded}
)

// StateError builds the Error(kind) state.
func StateError(err *AppError) ViewState {
	return ViewState{Phase: PhaseError, Err: err}
}

// Equal compares phases and, for error states, error kinds.
func (s ViewState) Equal(other ViewState) bool {
	if s.Phase != other.Phase {
		return false
	}
	if s.Phase == PhaseError {
		return s.Err.Equal(other.Err)
	}
	return true
}

func (s ViewState) String() string {
	if s.Phase == PhaseError && s.Err != nil {
		return "error(" + s.Err.Kind.String() + ")"
	}
	return s.Phase.String()
}

// PortfolioEvent is the serialised form of one published view snapshot.
type PortfolioEvent struct {
	State      string    `json:"state"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Holdings   []Holding `json:"holdings"`
	Summary    Summary   `json:"summary"`
	At         time.Time `json:"at"`
}

// NewPortfolioEvent describes state and holdings taken from one publish.
func NewPortfolioEvent(state ViewState, holdings []Holding, at time.Time) *PortfolioEvent {
	ev := &PortfolioEvent{
		State:    state.Phase.String(),
		Holdings: holdings,
		Summary:  Summarize(holdings),
		At:       at,
	}
	if ev.Holdings == nil {
		ev.Holdings = []Holding{}
	}
	if state.Err != nil {
		ev.ErrorKind = state.Err.Kind.String()
		ev.Error = state.Err.Error()
		ev.StatusCode = state.Err.StatusCode
	}
	return ev
}
