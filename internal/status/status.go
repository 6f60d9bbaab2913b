// Package status normalizes free-form status strings into the four-level
// vocabulary used everywhere in the console. Portal cards, timeline entries
// and group badges all classify through this package so that "warn" means
// the same thing on every surface.
package status

import "strings"

// Level is one of the four recognized severity levels.
type Level string

const (
	Good    Level = "good"
	Warn    Level = "warn"
	Bad     Level = "bad"
	Unknown Level = "unknown"
)

// Meta pairs a level with its fixed operator-facing explanation.
type Meta struct {
	Level Level
	Title string
}

var titles = map[Level]string{
	Good:    "Healthy / ready signal.",
	Warn:    "Attention needed. Review this item.",
	Bad:     "Problem state. Investigate before proceeding.",
	Unknown: "No reliable state available.",
}

// Classify maps a raw status string onto a Meta. It is total: any input,
// including the empty string, yields one of the four levels. Matching is
// case-insensitive and unrecognized values map to Unknown.
func Classify(raw string) Meta {
	level := Level(strings.ToLower(strings.TrimSpace(raw)))
	switch level {
	case Good, Warn, Bad, Unknown:
		return Meta{Level: level, Title: titles[level]}
	default:
		return Meta{Level: Unknown, Title: titles[Unknown]}
	}
}

// Worst folds a set of levels into a single aggregate using the
// risk-surfacing precedence: any Bad poisons the aggregate, any Warn
// (without Bad) degrades it, and Good requires full consensus. Everything
// else, including an empty set, is Unknown.
func Worst(levels ...Level) Level {
	if len(levels) == 0 {
		return Unknown
	}
	allGood := true
	sawWarn := false
	for _, l := range levels {
		switch l {
		case Bad:
			return Bad
		case Warn:
			sawWarn = true
			allGood = false
		case Good:
		default:
			allGood = false
		}
	}
	if sawWarn {
		return Warn
	}
	if allGood {
		return Good
	}
	return Unknown
}
