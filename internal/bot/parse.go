package bot

import (
	"fmt"
	"strings"

	"church_site/internal/search"
)

// SearchArgs holds the parsed arguments of /leaders and /ministries.
type SearchArgs struct {
	Category string
	Query    string
}

// ParseSearchArgs splits "[category] [query...]". The first word is taken as the
// category only when it names one of categories or "all".
func ParseSearchArgs(args string, categories []string) SearchArgs {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return SearchArgs{}
	}
	first := strings.ToLower(parts[0])
	if first == search.AllCategory {
		return SearchArgs{Category: first, Query: strings.Join(parts[1:], " ")}
	}
	for _, c := range categories {
		if strings.EqualFold(c, first) {
			return SearchArgs{Category: c, Query: strings.Join(parts[1:], " ")}
		}
	}
	return SearchArgs{Query: strings.Join(parts, " ")}
}

// ParseEventID extracts an event ID from a command argument string.
func ParseEventID(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return "", fmt.Errorf("event ID is required")
	}
	return parts[0], nil
}

// ParseToggle reads an on/off argument.
func ParseToggle(args string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "yes", "enable", "1":
		return true, nil
	case "off", "no", "disable", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q, use: on, off", args)
}
