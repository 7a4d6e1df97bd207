package reader

import "strings"

// Mode is the active reading view of a rendered message.
type Mode int

const (
	ModeFull Mode = iota
	ModeSingle
	ModeFeed
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeFeed:
		return "feed"
	default:
		return "full"
	}
}

// ParseMode parses "full", "single" or "feed".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return ModeFull, true
	case "single", "paragraph":
		return ModeSingle, true
	case "feed", "shorts":
		return ModeFeed, true
	default:
		return ModeFull, false
	}
}

// Nav is how a view moves between pages.
type Nav int

const (
	NavNone    Nav = iota // everything on one scrollable surface
	NavButtons            // previous / next controls
	NavGesture            // wheel or swipe with a cooldown
)

var modeNav = map[Mode]Nav{
	ModeFull:   NavNone,
	ModeSingle: NavButtons,
	ModeFeed:   NavGesture,
}

// Navigation reports how m moves between pages.
func (m Mode) Navigation() Nav { return modeNav[m] }

// Paged reports whether m shows one page at a time.
func (m Mode) Paged() bool { return modeNav[m] != NavNone }

// ClampIndex bounds i into [0, max(0, total-1)].
func ClampIndex(i, total int) int {
	if i >= total {
		i = total - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
