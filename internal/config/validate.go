package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/mriynyk/internal/reader"
)

// CheckConfigValidity reports every problem found in v as one error.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(s string) { problems = append(problems, s) }

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if u := strings.TrimSpace(v.GetString("db_url")); u != "" && !strings.HasPrefix(u, "mem://") && !strings.HasPrefix(u, "sqlite://") {
		add("db_url must start with mem:// or sqlite://")
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		add("http_addr is required")
	}
	for _, key := range []string{"answer.url", "students.url"} {
		if raw := strings.TrimSpace(v.GetString(key)); raw != "" {
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				add(key + " must be an http(s) url")
			}
		}
	}
	if v.GetDuration("answer.timeout") <= 0 {
		add("answer.timeout must be a positive duration")
	}
	if v.GetInt("answer.year") <= 0 {
		add("answer.year must be greater than 0")
	}
	if v.GetInt("students.grade") < 0 {
		add("students.grade must not be negative")
	}
	if v.GetInt("students.recent_days") <= 0 {
		add("students.recent_days must be greater than 0")
	}
	if v.GetInt("reader.min_page_chars") < 0 {
		add("reader.min_page_chars must not be negative")
	}
	if _, ok := reader.ParseMode(v.GetString("reader.default_mode")); !ok {
		add("reader.default_mode must be one of full, single, feed")
	}
	if v.GetDuration("reader.rsvp_tick") <= 0 {
		add("reader.rsvp_tick must be a positive duration")
	}
	if v.GetDuration("reader.feed_cooldown") < 0 {
		add("reader.feed_cooldown must not be negative")
	}
	if v.GetFloat64("reader.swipe_threshold") < 0 {
		add("reader.swipe_threshold must not be negative")
	}
	if v.GetFloat64("reader.wheel_delta") <= 0 {
		add("reader.wheel_delta must be greater than 0")
	}
	if v.GetInt("render.wrap") < 0 {
		add("render.wrap must not be negative")
	}
	if v.GetInt("messages.per_student") <= 0 {
		add("messages.per_student must be greater than 0")
	}
	if v.GetInt("activity.limit") <= 0 {
		add("activity.limit must be greater than 0")
	}
	if v.GetInt("activity.show") < 0 {
		add("activity.show must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config:\n  - " + strings.Join(problems, "\n  - "))
}
