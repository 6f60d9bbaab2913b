// Package timeline merges the per-area evidence timelines reported by the
// overview-status endpoint into one filterable, groupable collection.
//
// The aggregator retains the last context it was given so that a
// filter-only change (status, area, window, expand/collapse) re-renders
// without another network round trip.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/boshu2/evconsole/internal/status"
)

// Areas lists the known evidence areas in declaration order. Merge emits
// entries area-major in this order; sections outside this list are appended
// after it, sorted by name.
var Areas = []string{"release", "rollback", "restore", "evolution"}

// Entry is one status-bearing fact about an area. The timestamp is read
// from updated_at first, falling back to last_updated; absence is valid.
type Entry struct {
	Area        string `json:"area,omitempty"`
	Status      string `json:"status,omitempty"`
	Label       string `json:"label,omitempty"`
	Value       any    `json:"value,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Timestamp returns the entry's effective timestamp, or "" when absent.
func (e Entry) Timestamp() string {
	if e.UpdatedAt != "" {
		return e.UpdatedAt
	}
	return e.LastUpdated
}

// Section is one named area of the overview-status payload. Fields beyond
// the timeline feed the portal and status cards; all of them are optional
// and default to their zero value.
type Section struct {
	Status          string  `json:"status,omitempty"`
	LastUpdated     string  `json:"last_updated,omitempty"`
	Timeline        []Entry `json:"timeline,omitempty"`
	Passed          int     `json:"passed,omitempty"`
	Total           int     `json:"total,omitempty"`
	Available       bool    `json:"available,omitempty"`
	OK              bool    `json:"ok,omitempty"`
	PendingApproval int     `json:"pending_approval,omitempty"`
	Actionable      int     `json:"actionable,omitempty"`
}

// Context is the last-known overview context the aggregator renders from.
type Context struct {
	Sections map[string]Section `json:"sections"`
}

// Window keys accepted by the filter.
const (
	WindowAll = "all"
	Window24h = "24h"
	Window7d  = "7d"
)

// Filter holds the three independent timeline predicates. Empty values
// mean "all".
type Filter struct {
	Status string
	Area   string
	Window string
}

func (f Filter) normalized() Filter {
	norm := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return "all"
		}
		return v
	}
	return Filter{Status: norm(f.Status), Area: norm(f.Area), Window: norm(f.Window)}
}

// timestampLayouts are tried in order when parsing entry timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// withinWindow reports whether ts falls inside the window ending at now.
// The policy is fail-open: a missing or unparsable timestamp always passes,
// so malformed evidence is surfaced rather than silently hidden.
func withinWindow(ts, windowKey string, now time.Time) bool {
	if ts == "" || windowKey == WindowAll {
		return true
	}
	var max time.Duration
	switch windowKey {
	case Window24h:
		max = 24 * time.Hour
	case Window7d:
		max = 7 * 24 * time.Hour
	default:
		return true
	}
	for _, layout := range timestampLayouts {
		when, err := time.Parse(layout, ts)
		if err != nil {
			continue
		}
		return now.Sub(when) <= max
	}
	return true
}

// SummaryCard is one of the six always-present summary values.
type SummaryCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Hint  string `json:"hint"`
}

// Group is a set of filtered entries sharing an area, with derived
// aggregate state.
type Group struct {
	Area        string       `json:"area"`
	Status      status.Level `json:"status"`
	Entries     []Entry      `json:"entries"`
	LastUpdated string       `json:"last_updated"`
	Collapsed   bool         `json:"collapsed"`
}

// View is the rendered result of one merge→filter→summarize→group pass.
type View struct {
	Window  string        `json:"window"`
	Summary []SummaryCard `json:"summary"`
	Groups  []Group       `json:"groups"`
}

// Empty reports whether no entries survived filtering.
func (v View) Empty() bool { return len(v.Groups) == 0 }

// Aggregator retains the most recent context and filter so any control
// change can re-run the full pipeline without a new fetch. It is owned by
// a single goroutine; there is no internal locking.
type Aggregator struct {
	ctx       Context
	filter    Filter
	collapsed map[string]bool
	now       func() time.Time
}

// NewAggregator returns an aggregator with all filters set to "all" and
// every group expanded.
func NewAggregator() *Aggregator {
	return &Aggregator{
		filter:    Filter{},
		collapsed: make(map[string]bool),
		now:       time.Now,
	}
}

// SetContext replaces the retained context.
func (a *Aggregator) SetContext(ctx Context) { a.ctx = ctx }

// Context returns the retained context.
func (a *Aggregator) Context() Context { return a.ctx }

// SetFilter replaces the retained filter.
func (a *Aggregator) SetFilter(f Filter) { a.filter = f }

// Filter returns the retained filter in normalized form.
func (a *Aggregator) Filter() Filter { return a.filter.normalized() }

// Toggle flips the expand/collapse state of one area's group.
func (a *Aggregator) Toggle(area string) { a.collapsed[area] = !a.collapsed[area] }

// ExpandAll expands every group.
func (a *Aggregator) ExpandAll() { a.collapsed = make(map[string]bool) }

// CollapseAll collapses every group currently present in the context.
func (a *Aggregator) CollapseAll() {
	for _, area := range a.areas() {
		a.collapsed[area] = true
	}
}

func (a *Aggregator) areas() []string {
	seen := make(map[string]bool, len(Areas))
	out := make([]string, 0, len(a.ctx.Sections))
	for _, area := range Areas {
		if _, ok := a.ctx.Sections[area]; ok {
			out = append(out, area)
			seen[area] = true
		}
	}
	extra := make([]string, 0)
	for area := range a.ctx.Sections {
		if !seen[area] {
			extra = append(extra, area)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// merge concatenates every area's timeline, tagging each entry with its
// source area. Order is area-major, source order within an area.
func (a *Aggregator) merge() []Entry {
	var out []Entry
	for _, area := range a.areas() {
		for _, e := range a.ctx.Sections[area].Timeline {
			e.Area = area
			out = append(out, e)
		}
	}
	return out
}

// Render runs the full pipeline against the retained context and filter.
func (a *Aggregator) Render() View {
	return a.renderAt(a.now())
}

func (a *Aggregator) renderAt(now time.Time) View {
	f := a.filter.normalized()

	var filtered []Entry
	for _, e := range a.merge() {
		level := status.Classify(e.Status).Level
		if f.Status != "all" && string(level) != f.Status {
			continue
		}
		if f.Area != "all" && e.Area != f.Area {
			continue
		}
		if !withinWindow(e.Timestamp(), f.Window, now) {
			continue
		}
		filtered = append(filtered, e)
	}

	view := View{
		Window:  f.Window,
		Summary: summarize(filtered, f.Window),
	}

	order := make([]string, 0)
	byArea := make(map[string][]Entry)
	for _, e := range filtered {
		if _, ok := byArea[e.Area]; !ok {
			order = append(order, e.Area)
		}
		byArea[e.Area] = append(byArea[e.Area], e)
	}
	for _, area := range order {
		entries := byArea[area]
		levels := make([]status.Level, len(entries))
		for i, e := range entries {
			levels[i] = status.Classify(e.Status).Level
		}
		view.Groups = append(view.Groups, Group{
			Area:        area,
			Status:      status.Worst(levels...),
			Entries:     entries,
			LastUpdated: lastUpdated(entries),
			Collapsed:   a.collapsed[area],
		})
	}
	return view
}

// summarize produces the six always-present summary cards. Zero counts
// render as "0", never as an omitted card.
func summarize(items []Entry, windowKey string) []SummaryCard {
	statusCounts := make(map[status.Level]int)
	areaCounts := make(map[string]int)
	for _, e := range items {
		statusCounts[status.Classify(e.Status).Level]++
		areaCounts[e.Area]++
	}
	return []SummaryCard{
		{Label: "Window", Value: windowKey, Hint: "Active timeline window"},
		{Label: "Entries", Value: fmt.Sprint(len(items)), Hint: "Visible timeline entries"},
		{Label: "Bad", Value: fmt.Sprint(statusCounts[status.Bad]), Hint: "Items in problem state"},
		{Label: "Warn", Value: fmt.Sprint(statusCounts[status.Warn]), Hint: "Items needing attention"},
		{Label: "Release", Value: fmt.Sprint(areaCounts["release"]), Hint: "Release evidence entries"},
		{Label: "Evolution", Value: fmt.Sprint(areaCounts["evolution"]), Hint: "Evolution evidence entries"},
	}
}

// lastUpdated is the maximum member timestamp. ISO-8601 timestamps are
// order-preserving under plain string comparison, so no parsing is done.
func lastUpdated(entries []Entry) string {
	best := ""
	for _, e := range entries {
		if ts := e.Timestamp(); ts > best {
			best = ts
		}
	}
	if best == "" {
		return "—"
	}
	return best
}
