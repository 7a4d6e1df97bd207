package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/mriynyk/internal/reader"
)

// DefaultWheelDelta is the gesture distance of one wheel notch or key press.
const DefaultWheelDelta = 60.0

const (
	headerHeight = 1
	footerHeight = 1
)

// Options configures the interactive reader.
type Options struct {
	Title      string
	Mode       reader.Mode
	RSVP       bool
	WheelDelta float64
}

// RenderReader opens the interactive reader for one note body.
func RenderReader(ctx context.Context, text string, ropts reader.Options, opts Options) error {
	m := newModel(text, ropts, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// rsvpTickMsg carries the handle of the run that armed it.
type rsvpTickMsg struct {
	handle reader.Handle
}

func tickCmd(e reader.Effect) tea.Cmd {
	if !e.Schedule() {
		return nil
	}
	h := e.Handle
	return tea.Tick(e.Interval, func(time.Time) tea.Msg { return rsvpTickMsg{handle: h} })
}

type model struct {
	session    *reader.Session
	measurer   *termMeasurer
	vp         viewport.Model
	lay        layout
	st         styles
	title      string
	wheelDelta float64
	width      int
	height     int
	startRSVP  bool
	status     string
}

func newModel(text string, ropts reader.Options, opts Options) model {
	meas := &termMeasurer{}
	s := reader.New(text, meas, ropts)
	s.SetMode(opts.Mode)
	wd := opts.WheelDelta
	if wd <= 0 {
		wd = DefaultWheelDelta
	}
	m := model{
		session:    s,
		measurer:   meas,
		vp:         viewport.New(80, 24-headerHeight-footerHeight),
		st:         defaultStyles(),
		title:      opts.Title,
		wheelDelta: wd,
		startRSVP:  opts.RSVP,
	}
	m.relayout(true)
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.measurer.width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-headerHeight-footerHeight)
		if eff := m.session.Resize(); eff.Action == reader.TimerStop {
			m.status = "RSVP stopped: window resized"
		}
		m.relayout(false)
		if m.startRSVP {
			m.startRSVP = false
			return m, m.toggleRSVP()
		}
		return m, nil
	case rsvpTickMsg:
		f, ok := m.session.Tick(msg.handle)
		if !ok {
			return m, nil
		}
		if f.Done {
			m.status = "RSVP finished"
			return m, nil
		}
		m.follow(f.Box)
		return m, tickCmd(reader.Effect{Action: reader.TimerStart, Handle: msg.handle, Interval: m.session.TickInterval()})
	case tea.MouseMsg:
		if m.session.Mode() == reader.ModeFeed {
			if msg.Action != tea.MouseActionPress {
				return m, nil
			}
			switch msg.Button {
			case tea.MouseButtonWheelDown:
				return m, m.gesture(m.wheelDelta)
			case tea.MouseButtonWheelUp:
				return m, m.gesture(-m.wheelDelta)
			}
			return m, nil
		}
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// handleKey reports whether key was consumed by the reader.
func (m *model) handleKey(key string) (tea.Cmd, bool) {
	mode := m.session.Mode()
	switch key {
	case "q", "esc", "ctrl+c":
		return tea.Quit, true
	case "1", "f":
		return m.setMode(reader.ModeFull), true
	case "2", "s":
		return m.setMode(reader.ModeSingle), true
	case "3", "w":
		return m.setMode(reader.ModeFeed), true
	case "r":
		return m.toggleRSVP(), true
	case "left", "h", "p":
		if mode == reader.ModeSingle {
			eff, _ := m.session.Prev()
			return m.afterTurn(eff), true
		}
	case "right", "l", "n":
		if mode == reader.ModeSingle {
			eff, _ := m.session.Next()
			return m.afterTurn(eff), true
		}
	case "j", "down", "pgdown", " ":
		if mode == reader.ModeFeed {
			return m.gesture(m.wheelDelta), true
		}
	case "k", "up", "pgup":
		if mode == reader.ModeFeed {
			return m.gesture(-m.wheelDelta), true
		}
	}
	return nil, false
}

func (m *model) setMode(mode reader.Mode) tea.Cmd {
	eff := m.session.SetMode(mode)
	m.relayout(true)
	return tickCmd(eff)
}

func (m *model) gesture(delta float64) tea.Cmd {
	eff, moved := m.session.Gesture(delta)
	if !moved {
		return nil
	}
	return m.afterTurn(eff)
}

func (m *model) afterTurn(eff reader.Effect) tea.Cmd {
	m.relayout(true)
	return tickCmd(eff)
}

func (m *model) toggleRSVP() tea.Cmd {
	eff := m.session.ToggleRSVP()
	switch {
	case eff.Schedule():
		m.status = "RSVP on"
	case eff.Action == reader.TimerStop && !m.session.RSVP():
		m.status = "RSVP off"
	}
	return tickCmd(eff)
}

func (m *model) relayout(top bool) {
	m.lay = layoutHTML(m.session.Region().HTML, m.measurer.width)
	lines := make([]string, 0, len(m.lay.lines))
	for _, ln := range m.lay.lines {
		lines = append(lines, renderLine(ln, m.lay.width, &m.st))
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if top {
		m.vp.GotoTop()
	}
}

// follow scrolls so the highlighted line stays visible.
func (m *model) follow(box reader.Rect) {
	switch {
	case box.Y < m.vp.YOffset:
		m.vp.SetYOffset(box.Y)
	case box.Y >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(box.Y - m.vp.Height + 1)
	}
}

func (m model) View() string {
	base := m.header() + "\n" + m.vp.View() + "\n" + m.footer()
	box, ok := m.session.Box()
	if !ok {
		return base
	}
	y := box.Y - m.vp.YOffset
	if y < 0 || y >= m.vp.Height {
		return base
	}
	w, found := m.lay.wordAt(box)
	if !found {
		return base
	}
	return m.renderOverlay(base, w.text(), box.X, y+headerHeight)
}

func (m model) header() string {
	title := m.title
	if title == "" {
		title = "note"
	}
	right := m.session.Mode().String()
	if m.session.Mode().Paged() {
		right += " " + pageLabel(m.session)
	}
	if m.session.RSVP() {
		right += " • RSVP"
	}
	return spread(m.st.title.Render(title), right+" ", m.vp.Width)
}

func (m model) footer() string {
	var left string
	switch m.session.Mode() {
	case reader.ModeSingle:
		c := m.session.Controls()
		prev, next := m.st.disabled.Render("‹ prev"), m.st.disabled.Render("next ›")
		if c.Prev {
			prev = "‹ prev"
		}
		if c.Next {
			next = "next ›"
		}
		left = prev + "  " + next
	case reader.ModeFeed:
		up, down := "▲", "▼"
		if m.session.AtFirst() {
			up = m.st.disabled.Render(up)
		}
		if m.session.AtLast() {
			down = m.st.disabled.Render(down)
		}
		left = up + " " + down + " swipe"
	default:
		left = "↑/↓ scroll"
	}
	left += m.st.faint.Render(" • f/s/w mode • r rsvp • q quit")
	return spread(left, m.st.status.Render(m.status)+" ", m.vp.Width)
}
