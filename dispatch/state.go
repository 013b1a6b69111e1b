package dispatch

// State is the observable mode of a Dispatcher.
type State string

const (
	Idle      State = "idle"
	Running   State = "running"
	Completed State = "completed"
	Failed    State = "failed"
)

// Event drives a State transition.
type Event string

const (
	EventRun     Event = "run"
	EventStop    Event = "stop"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

// Next is the dispatcher's transition function. Reset acknowledges a
// finished dispatch, returning Completed or Failed to Idle. Completed and
// Failed are also at rest, so a Run from either starts a new dispatch
// without a Reset first. The second result is false when the event is not
// accepted in state s, in which case s is returned unchanged.
func Next(s State, e Event) (State, bool) {
	switch s {
	case Idle:
		if e == EventRun {
			return Running, true
		}
	case Completed, Failed:
		switch e {
		case EventRun:
			return Running, true
		case EventReset:
			return Idle, true
		}
	case Running:
		switch e {
		case EventStop:
			return Idle, true
		case EventSucceed:
			return Completed, true
		case EventFail:
			return Failed, true
		}
	}
	return s, false
}
