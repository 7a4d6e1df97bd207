package config

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# mriynyk configuration (TOML)\n\n")

	top, sections, order := splitSections(GetConfigOptions())
	for _, o := range top {
		writeTOMLOption(&b, o)
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			writeTOMLOption(&b, o)
		}
	}
	return b.String()
}

// UpdateTOML merges defaults into an existing TOML string and comments out unknown keys.
func UpdateTOML(existing string) (string, bool) {
	lines := strings.Split(existing, "\n")
	opts := GetConfigOptions()

	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	existingKeys := make(map[string]bool)
	headerAt := make(map[string]int)
	firstHeader := -1
	currentSection := ""
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			currentSection = strings.TrimSpace(trim[1 : len(trim)-1])
			if firstHeader < 0 {
				firstHeader = len(out)
			}
			if _, ok := headerAt[currentSection]; !ok {
				headerAt[currentSection] = len(out)
			}
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		fullKey := key
		if currentSection != "" {
			fullKey = currentSection + "." + key
		}
		existingKeys[fullKey] = true
		if !known[fullKey] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !existingKeys[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	// Missing keys go into their existing table (or before the first table
	// for top-level keys) so no table header is ever repeated.
	const marker = "# Added by config update"
	inserts := make(map[int][]string)
	var tail []string
	top, sections, order := splitSections(missing)
	if len(top) > 0 {
		block := []string{marker}
		for _, o := range top {
			block = append(block, optionLines(o)...)
		}
		if firstHeader >= 0 {
			inserts[firstHeader] = append(inserts[firstHeader], block...)
		} else {
			tail = append(tail, "")
			tail = append(tail, block...)
		}
	}
	for _, section := range order {
		var block []string
		for _, o := range sections[section] {
			block = append(block, optionLines(o)...)
		}
		if at, ok := headerAt[section]; ok {
			inserts[at+1] = append(inserts[at+1], append([]string{marker}, block...)...)
			continue
		}
		if len(tail) == 0 {
			tail = append(tail, "", marker)
		}
		tail = append(tail, "["+section+"]")
		tail = append(tail, block...)
	}

	merged := make([]string, 0, len(out)+len(tail)+len(missing)*3)
	for i, line := range out {
		merged = append(merged, inserts[i]...)
		merged = append(merged, line)
	}
	merged = append(merged, tail...)
	return strings.Join(merged, "\n"), true
}

// splitSections groups dotted keys by their first segment, preserving order.
// Returned section options carry the key relative to the section.
func splitSections(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	top := make([]ConfigOption, 0, len(opts))
	sections := make(map[string][]ConfigOption)
	order := make([]string, 0)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

// tomlValue formats a default as a TOML literal.
func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func writeTOMLOption(b *strings.Builder, o ConfigOption) {
	for _, l := range optionLines(o) {
		b.WriteString(l + "\n")
	}
}
