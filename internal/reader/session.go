package reader

import (
	"math"
	"time"

	"github.com/mithrel/mriynyk/internal/render"
)

// Placeholder is shown by every view when there is nothing to read.
const Placeholder = `<p class="empty">No content yet.</p>`

const (
	DefaultTickInterval   = 250 * time.Millisecond
	DefaultFeedCooldown   = 700 * time.Millisecond
	DefaultSwipeThreshold = 40.0
)

// Rect is a word box relative to the top-left of the view's scrollable content.
type Rect struct {
	X, Y, W, H int
}

// Region is the content currently shown by a view.
type Region struct {
	Mode Mode
	Page int
	HTML string
}

// Measurer lays out a region and returns one box per word, in document order.
// A word is a maximal run of non-whitespace characters.
type Measurer interface {
	MeasureWords(r Region) []Rect
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(r Region) []Rect

func (f MeasureFunc) MeasureWords(r Region) []Rect { return f(r) }

// Handle identifies one RSVP run. Ticks carrying an older handle are stale.
type Handle uint64

// Effect tells the caller how to drive the tick source after a state change.
type Effect struct {
	Action   TimerAction
	Handle   Handle
	Interval time.Duration
}

// Schedule reports whether a tick for e.Handle should be armed.
func (e Effect) Schedule() bool {
	return e.Action == TimerStart || e.Action == TimerRestart
}

// Frame is the outcome of one accepted tick.
type Frame struct {
	Box   Rect
	Index int
	Done  bool
}

// Controls is the enabled state of the single view's buttons.
type Controls struct {
	Prev bool
	Next bool
}

type Options struct {
	MinPageChars   int
	TickInterval   time.Duration
	FeedCooldown   time.Duration
	SwipeThreshold float64

	// Now is the clock used for the feed cooldown.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		MinPageChars:   render.DefaultMinChars,
		TickInterval:   DefaultTickInterval,
		FeedCooldown:   DefaultFeedCooldown,
		SwipeThreshold: DefaultSwipeThreshold,
		Now:            time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.FeedCooldown < 0 {
		o.FeedCooldown = 0
	}
	if o.SwipeThreshold < 0 {
		o.SwipeThreshold = 0
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// Session is the reading state of one rendered message. It is not safe for
// concurrent use; the owning event loop serializes all calls.
type Session struct {
	opts     Options
	measurer Measurer

	blocks []render.Block
	pages  []render.Page

	mode Mode
	page int

	rsvp   bool
	handle Handle
	words  []Rect
	pos    int
	box    Rect
	hasBox bool

	lastGesture time.Time
}

// New renders text and paginates it with opts.MinPageChars.
func New(text string, m Measurer, opts Options) *Session {
	return NewFromBlocks(render.Blocks(text), m, opts)
}

// NewFromBlocks builds a session over already rendered blocks.
func NewFromBlocks(blocks []render.Block, m Measurer, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		opts:     opts,
		measurer: m,
		blocks:   blocks,
		pages:    render.Paginate(blocks, opts.MinPageChars),
	}
}

func (s *Session) Mode() Mode { return s.mode }
func (s *Session) PageIndex() int { return s.page }
func (s *Session) PageCount() int { return len(s.pages) }
func (s *Session) Blocks() []render.Block { return s.blocks }
func (s *Session) Pages() []render.Page { return s.pages }
func (s *Session) RSVP() bool { return s.rsvp }
func (s *Session) Handle() Handle { return s.handle }
func (s *Session) Empty() bool { return len(s.blocks) == 0 }
func (s *Session) TickInterval() time.Duration { return s.opts.TickInterval }

// Region returns what the active view shows.
func (s *Session) Region() Region {
	r := Region{Mode: s.mode, Page: s.page}
	switch {
	case s.Empty():
		r.HTML = Placeholder
	case s.mode == ModeFull:
		r.HTML = render.Join(s.blocks)
	default:
		r.HTML = s.pages[s.page].HTML()
	}
	return r
}

// Controls reports which single-view buttons are enabled.
func (s *Session) Controls() Controls {
	if s.mode != ModeSingle || len(s.pages) == 0 {
		return Controls{}
	}
	return Controls{Prev: s.page > 0, Next: s.page < len(s.pages)-1}
}

// AtFirst and AtLast drive the feed's boundary affordances.
func (s *Session) AtFirst() bool { return s.page == 0 }
func (s *Session) AtLast() bool { return s.page >= len(s.pages)-1 }

// SetMode switches the active view. The page index is kept.
func (s *Session) SetMode(m Mode) Effect {
	if m == s.mode {
		return Effect{}
	}
	s.mode = m
	s.page = ClampIndex(s.page, len(s.pages))
	return s.apply(EventModeSwitch)
}

// Next and Prev move the single view by one page. They report false when
// the move is out of range or the active view is not the single view.
func (s *Session) Next() (Effect, bool) { return s.buttonTurn(1) }
func (s *Session) Prev() (Effect, bool) { return s.buttonTurn(-1) }

func (s *Session) buttonTurn(delta int) (Effect, bool) {
	if s.mode.Navigation() != NavButtons {
		return Effect{}, false
	}
	return s.turnTo(s.page + delta)
}

// GoTo moves to page i, clamped into range.
func (s *Session) GoTo(i int) (Effect, bool) {
	return s.turnTo(ClampIndex(i, len(s.pages)))
}

func (s *Session) turnTo(i int) (Effect, bool) {
	if i < 0 || i >= len(s.pages) || i == s.page {
		return Effect{}, false
	}
	s.page = i
	if !s.mode.Paged() {
		return Effect{}, true
	}
	return s.apply(EventPageTurn), true
}

// Gesture feeds a wheel or swipe delta to the feed view. Positive deltas
// move forward. Inputs below the threshold, inside the cooldown window, or
// past either end are ignored.
func (s *Session) Gesture(delta float64) (Effect, bool) {
	if s.mode.Navigation() != NavGesture || math.Abs(delta) <= s.opts.SwipeThreshold {
		return Effect{}, false
	}
	now := s.opts.Now()
	if !s.lastGesture.IsZero() && now.Sub(s.lastGesture) < s.opts.FeedCooldown {
		return Effect{}, false
	}
	target := s.page + 1
	if delta < 0 {
		target = s.page - 1
	}
	if target < 0 || target >= len(s.pages) {
		return Effect{}, false
	}
	s.lastGesture = now
	return s.turnTo(target)
}

// ToggleRSVP flips the word highlighter for the active view.
func (s *Session) ToggleRSVP() Effect { return s.apply(EventToggle) }

// Resize invalidates measured geometry. A running highlighter stops and is
// switched off.
func (s *Session) Resize() Effect { return s.apply(EventResize) }

// Box returns the highlighted word box, if any.
func (s *Session) Box() (Rect, bool) { return s.box, s.hasBox }

// Tick advances the highlighter. It reports false for stale handles, which
// the caller must drop without rescheduling. A Done frame ends the run.
func (s *Session) Tick(h Handle) (Frame, bool) {
	if !s.rsvp || h != s.handle {
		return Frame{}, false
	}
	if s.pos >= len(s.words) {
		s.apply(EventExhausted)
		return Frame{Done: true}, true
	}
	s.box, s.hasBox = s.words[s.pos], true
	f := Frame{Box: s.box, Index: s.pos}
	s.pos++
	return f, true
}

func (s *Session) apply(ev Event) Effect {
	t := step(ev, s.rsvp)
	s.rsvp = t.on
	switch t.action {
	case TimerStart, TimerRestart:
		return s.startRun(t.action)
	case TimerStop:
		s.stopRun()
		return Effect{Action: TimerStop, Handle: s.handle}
	}
	return Effect{}
}

// startRun measures the active view and arms a fresh handle. Any earlier
// run is invalidated first. With no words to show the run is a no-op and
// the flag drops back off.
func (s *Session) startRun(action TimerAction) Effect {
	s.stopRun()
	var words []Rect
	if s.measurer != nil && !s.Empty() {
		words = s.measurer.MeasureWords(s.Region())
	}
	if len(words) == 0 {
		s.rsvp = false
		return Effect{Action: TimerStop, Handle: s.handle}
	}
	s.words = words
	return Effect{Action: action, Handle: s.handle, Interval: s.opts.TickInterval}
}

func (s *Session) stopRun() {
	s.handle++
	s.words = nil
	s.pos = 0
	s.box, s.hasBox = Rect{}, false
}
