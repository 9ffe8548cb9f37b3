package model

import "strings"

// ParseList splits an operator-supplied comma-separated list.
// Whitespace around each item is trimmed and empty items are dropped,
// so "a, b,,c " yields [a b c].
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
