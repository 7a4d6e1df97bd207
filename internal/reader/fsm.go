package reader

// Event is an input to the RSVP state machine.
type Event int

const (
	EventToggle     Event = iota // user flips RSVP on or off
	EventModeSwitch              // active view changed
	EventPageTurn                // active page changed inside a paged view
	EventResize                  // viewport geometry changed
	EventExhausted               // the run highlighted its last word
)

// TimerAction tells the owner of the tick source what to do.
type TimerAction int

const (
	TimerNone TimerAction = iota
	TimerStart
	TimerRestart
	TimerStop
)

func (a TimerAction) String() string {
	switch a {
	case TimerStart:
		return "start"
	case TimerRestart:
		return "restart"
	case TimerStop:
		return "stop"
	default:
		return "none"
	}
}

type stateKey struct {
	ev Event
	on bool
}

type transition struct {
	on     bool
	action TimerAction
}

// transitions is keyed by (event, RSVP flag before the event). A resize
// drops the flag because measured geometry is stale and is not recomputed.
var transitions = map[stateKey]transition{
	{EventToggle, false}:     {on: true, action: TimerStart},
	{EventToggle, true}:      {on: false, action: TimerStop},
	{EventModeSwitch, false}: {on: false, action: TimerNone},
	{EventModeSwitch, true}:  {on: true, action: TimerRestart},
	{EventPageTurn, false}:   {on: false, action: TimerNone},
	{EventPageTurn, true}:    {on: true, action: TimerRestart},
	{EventResize, false}:     {on: false, action: TimerNone},
	{EventResize, true}:      {on: false, action: TimerStop},
	{EventExhausted, false}:  {on: false, action: TimerNone},
	{EventExhausted, true}:   {on: false, action: TimerStop},
}

func step(ev Event, on bool) transition {
	if t, ok := transitions[stateKey{ev, on}]; ok {
		return t
	}
	return transition{on: on}
}
