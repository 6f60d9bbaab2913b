// Package overview composes the fan-out status fetches behind the
// overview and monitor views. Each composite load issues its sub-fetches
// concurrently and renders only after all of them complete; partial
// results are never rendered as if complete.
package overview

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/formatter"
	"github.com/boshu2/evconsole/internal/status"
	"github.com/boshu2/evconsole/internal/timeline"
)

// RestoreDrill is the restore-drill fetch result. A failed fetch is a
// valid "missing" state, not a load failure.
type RestoreDrill struct {
	OK   bool
	Data map[string]any
}

// StatusCard is a value card carrying a classified status level.
type StatusCard struct {
	Label  string       `json:"label"`
	Value  string       `json:"value"`
	Status status.Level `json:"status"`
}

// PortalCard is one per-area navigation card.
type PortalCard struct {
	Title   string       `json:"title"`
	Desc    string       `json:"desc"`
	Status  status.Level `json:"status"`
	Updated string       `json:"updated"`
}

// Snapshot is one composed overview load.
type Snapshot struct {
	Health     map[string]any
	Ready      map[string]any
	Telemetry  map[string]any
	Gates      map[string]any
	Migration  map[string]any
	GatePortal map[string]any
	Restore    RestoreDrill
	Status     *api.OverviewStatus

	Cards       []formatter.Card
	StatusCards []StatusCard
	PortalCards []PortalCard
	Context     timeline.Context
}

// LoadOverview fans out the eight overview fetches, waits for all of
// them, and derives the card sets and the timeline context.
func LoadOverview(ctx context.Context, c *api.Client) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { snap.Health, err = c.Health(gctx); return })
	g.Go(func() (err error) { snap.Ready, err = c.Ready(gctx); return })
	g.Go(func() (err error) { snap.Telemetry, err = c.Telemetry(gctx); return })
	g.Go(func() (err error) { snap.Gates, err = c.GatesSummary(gctx); return })
	g.Go(func() (err error) { snap.Migration, err = c.MigrationState(gctx); return })
	g.Go(func() (err error) { snap.GatePortal, err = c.GatePortalLatest(gctx); return })
	g.Go(func() (err error) { snap.Status, err = c.OverviewStatusSnapshot(gctx); return })
	g.Go(func() error {
		// A missing restore drill renders as "missing", it never fails
		// the composite load.
		data, err := c.RestoreDrillLatest(gctx)
		snap.Restore = RestoreDrill{OK: err == nil, Data: data}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Context = timeline.Context{Sections: snap.Status.Sections}
	snap.Cards = overviewCards(snap)
	snap.StatusCards = statusCards(snap)
	snap.PortalCards = portalCards(snap)
	return snap, nil
}

func overviewCards(s *Snapshot) []formatter.Card {
	providers := 0
	if list, ok := s.Health["ai_providers"].([]any); ok {
		providers = len(list)
	}
	return []formatter.Card{
		{Label: "System", Value: digStr(s.Health, "unknown", "system")},
		{Label: "Ready", Value: digStr(s.Ready, "unknown", "status")},
		{Label: "Providers", Value: fmt.Sprint(providers)},
		{Label: "HTTP req", Value: fmt.Sprint(digInt(s.Telemetry, "aggregate", "http", "requests_total"))},
		{Label: "Release pass", Value: passRatio(s.Gates, "release")},
		{Label: "Rollback pass", Value: passRatio(s.Gates, "rollback")},
		{Label: "Migration", Value: digStr(s.Migration, "unknown", "status")},
		{Label: "Restore drill", Value: availability(s.Restore.OK)},
	}
}

func statusCards(s *Snapshot) []StatusCard {
	sections := s.Status.Sections
	release := sections["release"]
	rollback := sections["rollback"]
	restore := sections["restore"]
	migration := sections["migration"]
	evolution := sections["evolution"]

	migrationStatus := status.Warn
	if migration.OK {
		migrationStatus = status.Good
	}
	actionableStatus := status.Good
	if evolution.Actionable > 0 {
		actionableStatus = status.Warn
	}

	return []StatusCard{
		{Label: "Release", Value: fmt.Sprintf("%d/%d", release.Passed, release.Total),
			Status: status.Classify(release.Status).Level},
		{Label: "Rollback", Value: fmt.Sprintf("%d/%d", rollback.Passed, rollback.Total),
			Status: status.Classify(rollback.Status).Level},
		{Label: "Restore", Value: availability(restore.Available),
			Status: status.Classify(restore.Status).Level},
		{Label: "Migration", Value: orUnknown(migration.Status), Status: migrationStatus},
		{Label: "Evolution pending", Value: fmt.Sprint(evolution.PendingApproval),
			Status: status.Classify(evolution.Status).Level},
		{Label: "Evolution actionable", Value: fmt.Sprint(evolution.Actionable),
			Status: actionableStatus},
	}
}

func portalCards(s *Snapshot) []PortalCard {
	sections := s.Status.Sections
	release := sections["release"]
	rollback := sections["rollback"]
	restore := sections["restore"]
	evolution := sections["evolution"]

	restoreStatus := restore.Status
	if restoreStatus == "" {
		if s.Restore.OK {
			restoreStatus = string(status.Good)
		} else {
			restoreStatus = string(status.Bad)
		}
	}
	restoreUpdated := restore.LastUpdated
	if restoreUpdated == "" {
		restoreUpdated = digStr(s.Restore.Data, "—", "updated_at")
	}
	releaseUpdated := release.LastUpdated
	if releaseUpdated == "" {
		releaseUpdated = rollback.LastUpdated
	}

	return []PortalCard{
		{Title: "Release / rollback portal",
			Desc:    "Gate summary and latest evidence for release and rollback checks.",
			Status:  status.Classify(release.Status).Level,
			Updated: orDash(releaseUpdated)},
		{Title: "Restore drill",
			Desc:    "Latest restore drill status for recovery readiness.",
			Status:  status.Classify(restoreStatus).Level,
			Updated: orDash(restoreUpdated)},
		{Title: "Evolution portal",
			Desc:    "Portal index for the evolution subsystem.",
			Status:  status.Classify(evolution.Status).Level,
			Updated: orDash(evolution.LastUpdated)},
		{Title: "Evolution final / nav",
			Desc:    "Final bundle, summary and navigation endpoints for evolution review.",
			Status:  status.Classify(evolution.Status).Level,
			Updated: orDash(evolution.LastUpdated)},
	}
}

func passRatio(gates map[string]any, area string) string {
	return fmt.Sprintf("%d/%d",
		digInt(gates, "summary", area, "passed"),
		digInt(gates, "summary", area, "total"))
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "missing"
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func orDash(v string) string {
	if v == "" {
		return "—"
	}
	return v
}

// dig walks nested maps, returning nil at the first missing key. Every
// caller defaults rather than erroring; payload shape is advisory.
func dig(m map[string]any, keys ...string) any {
	var cur any = m
	for _, key := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

func digInt(m map[string]any, keys ...string) int {
	switch v := dig(m, keys...).(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func digStr(m map[string]any, fallback string, keys ...string) string {
	if v, ok := dig(m, keys...).(string); ok && v != "" {
		return v
	}
	return fallback
}
