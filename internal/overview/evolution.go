package overview

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/formatter"
)

// EvolutionView is one evolution status+summary load with its cards.
type EvolutionView struct {
	Status  map[string]any
	Summary map[string]any
	Cards   []formatter.Card
}

// LoadEvolution fetches evolution status and summary concurrently and
// derives the pipeline cards.
func LoadEvolution(ctx context.Context, c *api.Client) (*EvolutionView, error) {
	view := &EvolutionView{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { view.Status, err = c.EvolutionStatus(gctx); return })
	g.Go(func() (err error) { view.Summary, err = c.EvolutionSummary(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	passRate := "0"
	if rate := dig(view.Summary, "pipeline", "guard_pass_rate"); rate != nil {
		passRate = fmt.Sprint(rate)
	}
	view.Cards = []formatter.Card{
		{Label: "Inspections", Value: fmt.Sprint(digInt(view.Summary, "counts", "inspections"))},
		{Label: "Proposals", Value: fmt.Sprint(digInt(view.Summary, "counts", "proposals"))},
		{Label: "Pending approval", Value: fmt.Sprint(digInt(view.Summary, "pipeline", "pending_approval"))},
		{Label: "Guard pass rate", Value: passRate},
	}
	return view, nil
}

// EvolutionLinks is the portal/nav/final link digest.
type EvolutionLinks struct {
	Links   map[string]any `json:"links"`
	Bundles map[string]any `json:"bundles"`
}

// LoadEvolutionLinks fans out the portal, nav, final and summary fetches
// and composes the link digest: portal routes, nav routes, doc links,
// plus the final-bundle routes with pipeline and latest state.
func LoadEvolutionLinks(ctx context.Context, c *api.Client) (*EvolutionLinks, error) {
	var portal, nav, final, summary map[string]any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { portal, err = c.EvolutionPortal(gctx); return })
	g.Go(func() (err error) { nav, err = c.EvolutionNav(gctx); return })
	g.Go(func() (err error) { final, err = c.EvolutionFinal(gctx); return })
	g.Go(func() (err error) { summary, err = c.EvolutionSummary(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := firstNonNil(portal["docs"], nav["docs"], []any{})
	return &EvolutionLinks{
		Links: map[string]any{
			"portal": firstNonNil(portal["routes"], portal["primary_routes"], portal),
			"nav":    firstNonNil(nav["primary_routes"], nav),
			"docs":   docs,
		},
		Bundles: map[string]any{
			"final":    firstNonNil(final["routes"], final),
			"pipeline": orEmptyMap(subMap(summary, "pipeline")),
			"latest":   orEmptyMap(subMap(summary, "latest")),
		},
	}, nil
}

func firstNonNil(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
