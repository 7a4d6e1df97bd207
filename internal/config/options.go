package config

import (
	"strings"
	"time"

	"github.com/mithrel/mriynyk/internal/db"
	"github.com/mithrel/mriynyk/internal/present/format"
	"github.com/mithrel/mriynyk/internal/render"
	"github.com/mithrel/mriynyk/internal/reader"
	"github.com/mithrel/mriynyk/internal/students"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/mriynyk.db"},
		{Key: "db_url", Default: "", Comment: "Storage override: mem:// or sqlite://path; empty uses data_dir"},
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address for `mriynyk-cli serve`"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required by the HTTP API when set"},

		{Key: "answer.url", Default: "http://localhost:8000", Comment: "Base URL of the note generation service; POST <url>/answer"},
		{Key: "answer.token", Default: "", Comment: "Optional bearer token sent to the generation service"},
		{Key: "answer.timeout", Default: "60s", Comment: "Request timeout for the generation service"},
		{Key: "answer.year", Default: time.Now().Year(), Comment: "School year sent with generation requests"},
		{Key: "answer.subject", Default: "math", Comment: "Subject sent with generation requests"},

		{Key: "students.url", Default: "", Comment: "Base URL of the student data API (GET /students, /overview); empty uses answer.url"},
		{Key: "students.grade", Default: 0, Comment: "Grade shown by default; 0 means every grade"},
		{Key: "students.recent_days", Default: students.DefaultRecentDays, Comment: "Window in days of the recent absences and average"},

		{Key: "reader.min_page_chars", Default: render.DefaultMinChars, Comment: "Minimum visible characters per page; 0 disables paging"},
		{Key: "reader.default_mode", Default: "full", Comment: "Initial reading mode: full, single or feed"},
		{Key: "reader.rsvp_tick", Default: reader.DefaultTickInterval.String(), Comment: "RSVP highlight interval"},
		{Key: "reader.feed_cooldown", Default: reader.DefaultFeedCooldown.String(), Comment: "Minimum time between accepted feed gestures"},
		{Key: "reader.swipe_threshold", Default: reader.DefaultSwipeThreshold, Comment: "Gesture magnitude a feed turn must exceed"},
		{Key: "reader.wheel_delta", Default: 60.0, Comment: "Gesture magnitude of one scroll wheel notch"},

		{Key: "render.sanitize", Default: false, Comment: "Sanitize HTML served by the API with bluemonday"},
		{Key: "render.style", Default: format.DefaultStyle, Comment: "glamour style for pretty output"},
		{Key: "render.wrap", Default: format.DefaultWrap, Comment: "Wrap width for plain and pretty output"},

		{Key: "messages.per_student", Default: db.DefaultMessagesPerStudent, Comment: "Messages kept per student, newest first"},
		{Key: "activity.limit", Default: db.DefaultActivityLimit, Comment: "Activity entries kept, newest first"},
		{Key: "activity.show", Default: 6, Comment: "Activity entries listed by default"},
	}
}

// ReaderOptions builds reader.Options from the reader.* keys.
func ReaderOptions(v getter) reader.Options {
	o := reader.DefaultOptions()
	o.MinPageChars = v.GetInt("reader.min_page_chars")
	if d := v.GetDuration("reader.rsvp_tick"); d > 0 {
		o.TickInterval = d
	}
	if v.IsSet("reader.feed_cooldown") {
		o.FeedCooldown = v.GetDuration("reader.feed_cooldown")
	}
	if v.IsSet("reader.swipe_threshold") {
		o.SwipeThreshold = v.GetFloat64("reader.swipe_threshold")
	}
	return o
}

// StudentsURL is students.url, falling back to answer.url.
func StudentsURL(v getter) string {
	if u := strings.TrimSpace(v.GetString("students.url")); u != "" {
		return u
	}
	return v.GetString("answer.url")
}

// getter is the subset of *viper.Viper read by helpers here.
type getter interface {
	GetInt(string) int
	GetString(string) string
	GetBool(string) bool
	GetFloat64(string) float64
	GetDuration(string) time.Duration
	IsSet(string) bool
}
