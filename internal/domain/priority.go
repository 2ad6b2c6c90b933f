package domain

import "strings"

// Priority ranks news and mayor messages for display and search scoring.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// ParsePriority upper-cases value; blank input resolves to NORMAL.
func ParsePriority(value string) (Priority, bool) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(value))); p {
	case "":
		return PriorityNormal, true
	case PriorityHigh, PriorityNormal, PriorityLow:
		return p, true
	default:
		return PriorityNormal, false
	}
}

// Boost is the relevance added to a search hit with this priority.
func (p Priority) Boost() float64 {
	switch p {
	case PriorityHigh:
		return 0.5
	case PriorityNormal:
		return 0.2
	default:
		return 0
	}
}
