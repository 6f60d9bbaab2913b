// Package review drives the stateful proposal review workflow: select a
// proposal, inspect its composite detail, run lifecycle actions, and
// re-sync every derived surface afterwards.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/artifacts"
	"github.com/boshu2/evconsole/internal/formatter"
)

// ErrNoSelection is returned when an operation requires a selected
// proposal and none is selected. It is reported to the relevant surface
// before being returned; no network call is made.
var ErrNoSelection = errors.New("no proposal selected")

// ActionKind is one of the four proposal lifecycle actions.
type ActionKind string

const (
	ActionApprove  ActionKind = "approve"
	ActionReject   ActionKind = "reject"
	ActionApply    ActionKind = "apply"
	ActionRollback ActionKind = "rollback"
)

// ActionKinds lists the accepted lifecycle actions.
var ActionKinds = []ActionKind{ActionApprove, ActionReject, ActionApply, ActionRollback}

// ExportSections lists the accepted review-export sections.
var ExportSections = []string{"artifacts", "baseline", "guard", "all"}

// ActionOptions carries the actor and optional reason submitted with a
// lifecycle action. An empty Actor falls back to the session default.
type ActionOptions struct {
	Actor  string
	Reason string
}

const (
	msgSelectFirst        = "Select a proposal first"
	msgNoArtifacts        = "No artifacts rendered yet"
	msgManifestSelect     = "Select a proposal to view artifact manifest"
	msgPRPreviewSelect    = "Select a proposal to preview PR title / PR draft / commit message"
	msgPatchPreviewSelect = "Select a proposal to preview patch / tests / rollout notes"
)

// Session owns the single proposal selection and mediates every review
// operation. The mutex guards the selection and serializes screen
// writes, so a load still in flight when the operator selects a
// different proposal has its renders dropped rather than shown stale.
type Session struct {
	client       *api.Client
	screen       Screen
	thresholds   artifacts.Thresholds
	defaultActor string
	actionsLimit int

	mu           sync.Mutex
	selected     string
	lastManifest *artifacts.Manifest
}

// Option configures a Session.
type Option func(*Session)

// WithThresholds overrides the manifest classification thresholds.
func WithThresholds(t artifacts.Thresholds) Option {
	return func(s *Session) { s.thresholds = t }
}

// WithDefaultActor overrides the actor submitted when none is given.
func WithDefaultActor(actor string) Option {
	return func(s *Session) { s.defaultActor = actor }
}

// WithActionsLimit overrides the recent-actions listing limit.
func WithActionsLimit(limit int) Option {
	return func(s *Session) { s.actionsLimit = limit }
}

// NewSession creates a review session with no selection.
func NewSession(client *api.Client, screen Screen, opts ...Option) *Session {
	s := &Session{
		client:       client,
		screen:       screen,
		thresholds:   artifacts.DefaultThresholds(),
		defaultActor: "operator-ui",
		actionsLimit: 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectedID returns the currently selected proposal id, or "".
func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select sets the selection and loads the proposal's composite detail.
// The selection sticks even if the load fails, matching row-selection
// semantics: the operator can retry actions against the chosen id.
func (s *Session) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	s.selected = id
	s.lastManifest = nil
	s.mu.Unlock()
	return s.loadDetail(ctx, id)
}

// Refresh re-runs the composite detail load for the current selection.
func (s *Session) Refresh(ctx context.Context) error {
	id := s.SelectedID()
	if id == "" {
		s.report(SurfaceDetail, msgSelectFirst)
		return ErrNoSelection
	}
	return s.loadDetail(ctx, id)
}

// set writes to a surface only while id is still the current selection,
// so a stale in-flight load never overwrites a newer proposal's view.
func (s *Session) set(id string, surface Surface, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != id {
		return
	}
	s.screen.Set(surface, text)
}

// report writes to a surface unconditionally, serialized with set.
func (s *Session) report(surface Surface, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Set(surface, text)
}

// loadDetail fans out the proposal record and the navigation/evidence
// bundle, waits for both, then renders every dependent surface. Artifact
// preview and manifest load eagerly only when artifact paths exist;
// otherwise explicit placeholders replace any stale panes.
func (s *Session) loadDetail(ctx context.Context, id string) error {
	var (
		detail *api.Proposal
		nav    *api.NavBundle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.client.Proposal(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		nav, err = s.client.EvidenceNavProposal(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.set(id, SurfaceDetail, err.Error())
		return err
	}

	s.set(id, SurfaceDetail, formatter.JSON(detail.Raw))
	s.renderIntegratedReview(id, nav, detail)
	s.set(id, SurfaceActions, formatter.JSON(map[string]any{"proposal_actions": nav.Actions}))

	if len(detail.ArtifactPaths) > 0 {
		s.set(id, SurfaceArtifacts, formatter.JSON(detail.ArtifactPaths))
		if err := s.loadArtifactPreview(ctx, id); err != nil {
			return err
		}
		return s.loadArtifactManifest(ctx, id)
	}

	s.set(id, SurfaceArtifacts, msgNoArtifacts)
	s.mu.Lock()
	if s.selected == id {
		s.lastManifest = nil
	}
	s.mu.Unlock()
	s.set(id, SurfaceBadges, renderBadges(artifacts.Classify(nil, s.thresholds)))
	s.set(id, SurfaceManifest, msgManifestSelect)
	s.set(id, SurfacePRPreview, msgPRPreviewSelect)
	s.set(id, SurfacePatchPreview, msgPatchPreviewSelect)
	return nil
}

// renderIntegratedReview renders the review, guard, and baseline
// summaries, with explicit placeholders when the nav bundle lacks data.
func (s *Session) renderIntegratedReview(id string, nav *api.NavBundle, detail *api.Proposal) {
	proposal := detail
	if proposal == nil && nav != nil {
		proposal = nav.Proposal
	}
	if proposal == nil {
		proposal = &api.Proposal{}
	}
	summary := map[string]any{
		"proposal_id":        proposal.ProposalID,
		"title":              proposal.Title,
		"status":             proposal.Status,
		"subject":            proposal.SourceSubject,
		"risk_level":         proposal.Risk.RiskLevel,
		"risk_score":         proposal.Risk.RiskScore,
		"approval_required":  proposal.ApprovalRequired,
		"auto_apply_allowed": proposal.Risk.AutoApplyAllowed,
	}
	s.set(id, SurfaceReviewSummary, formatter.JSON(summary))

	if nav == nil || nav.Guard == nil {
		s.set(id, SurfaceGuard, formatter.JSON(map[string]any{"guard": "not available"}))
	} else {
		checks := make([]map[string]string, 0, len(nav.Guard.Checks))
		for _, c := range nav.Guard.Checks {
			checks = append(checks, map[string]string{"name": c.Name, "status": c.Status})
		}
		s.set(id, SurfaceGuard, formatter.JSON(map[string]any{
			"guard_id": nav.Guard.GuardID,
			"status":   nav.Guard.Status,
			"checks":   checks,
		}))
	}

	if nav == nil || nav.Baseline == nil {
		s.set(id, SurfaceBaseline, formatter.JSON(map[string]any{"baseline": "not available"}))
	} else {
		s.set(id, SurfaceBaseline, formatter.JSON(map[string]any{
			"baseline_id":         nav.Baseline.BaselineID,
			"regression_detected": nav.Baseline.RegressionDetected,
			"summary":             nav.Baseline.Summary,
			"diff":                nav.Baseline.Diff,
		}))
	}
}

func (s *Session) loadArtifactPreview(ctx context.Context, id string) error {
	bundle, err := s.client.ArtifactPreview(ctx, id)
	if err != nil {
		s.set(id, SurfacePRPreview, err.Error())
		return err
	}
	p := bundle.Preview
	s.set(id, SurfacePRPreview, strings.Join([]string{
		"PR TITLE", "--------", p.PRTitle, "",
		"PR DRAFT", "--------", p.PRDraft, "",
		"COMMIT MESSAGE", "--------------", p.CommitMessage,
	}, "\n"))
	s.set(id, SurfacePatchPreview, strings.Join([]string{
		"PATCH", "-----", p.Patch, "",
		"TESTS TO ADD", "------------", p.Tests, "",
		"ROLLOUT NOTES", "-------------", p.Rollout,
	}, "\n"))
	return nil
}

func (s *Session) loadArtifactManifest(ctx context.Context, id string) error {
	bundle, err := s.client.ArtifactManifest(ctx, id)
	if err != nil {
		s.set(id, SurfaceManifest, err.Error())
		return err
	}
	s.mu.Lock()
	if s.selected == id {
		s.lastManifest = bundle.Manifest
	}
	s.mu.Unlock()
	s.set(id, SurfaceBadges, renderBadges(artifacts.Classify(bundle.Manifest, s.thresholds)))
	s.set(id, SurfaceManifest, formatter.JSON(bundle.Manifest))
	return nil
}

// PreviewKey renders the textual preview for one artifact key from the
// last loaded manifest, routed to the PR or patch pane.
func (s *Session) PreviewKey(key string) error {
	s.mu.Lock()
	selected := s.selected
	manifest := s.lastManifest
	s.mu.Unlock()
	if selected == "" {
		s.report(SurfacePRPreview, msgSelectFirst)
		return ErrNoSelection
	}
	p := artifacts.KeyPreview(manifest, key)
	if p.Target == artifacts.TargetPR {
		s.report(SurfacePRPreview, p.Body)
	} else {
		s.report(SurfacePatchPreview, p.Body)
	}
	return nil
}

// RunAction submits one lifecycle action for the selected proposal, then
// re-syncs the detail, the recent-actions list, and the evolution summary
// so every derived view reflects the new state. A failed action is
// surfaced verbatim and leaves the selection untouched.
func (s *Session) RunAction(ctx context.Context, kind ActionKind, opts ActionOptions) error {
	id := s.SelectedID()
	if id == "" {
		s.report(SurfaceActionResult, msgSelectFirst)
		return ErrNoSelection
	}

	actor := opts.Actor
	if actor == "" {
		actor = s.defaultActor
	}
	req := api.ActionRequest{Actor: actor}
	if opts.Reason != "" {
		reason := opts.Reason
		req.Reason = &reason
	}

	data, err := s.client.ProposalAction(ctx, id, string(kind), req)
	if err != nil {
		s.set(id, SurfaceActionResult, err.Error())
		return err
	}
	s.set(id, SurfaceActionResult, formatter.JSON(data))

	if err := s.loadDetail(ctx, id); err != nil {
		return err
	}
	if err := s.LoadActions(ctx); err != nil {
		return err
	}
	// Evolution summary refresh is best-effort; its failure must not
	// block the action result.
	if summary, err := s.client.EvolutionSummary(ctx); err == nil {
		s.set(id, SurfaceEvolution, formatter.JSON(summary))
	}
	return nil
}

// RenderArtifacts requests server-side artifact rendering for the
// selection, then refreshes the detail and the artifact preview.
func (s *Session) RenderArtifacts(ctx context.Context) error {
	id := s.SelectedID()
	if id == "" {
		s.report(SurfaceArtifacts, msgSelectFirst)
		return ErrNoSelection
	}

	data, err := s.client.RenderArtifacts(ctx, id)
	if err != nil {
		s.set(id, SurfaceArtifacts, err.Error())
		return err
	}
	s.set(id, SurfaceArtifacts, formatter.JSON(data))

	if err := s.loadDetail(ctx, id); err != nil {
		return err
	}
	return s.loadArtifactPreview(ctx, id)
}

// ExportReview requests an export bundle for one section and renders
// whichever output links are present, falling back to a raw dump.
func (s *Session) ExportReview(ctx context.Context, section string) error {
	id := s.SelectedID()
	if id == "" {
		s.report(SurfaceExport, msgSelectFirst)
		return ErrNoSelection
	}

	res, err := s.client.ExportReview(ctx, id, section)
	if err != nil {
		s.set(id, SurfaceExport, err.Error())
		return err
	}

	var lines []string
	for _, link := range []struct{ kind, path string }{
		{"json", res.JSON},
		{"markdown", res.Markdown},
		{"html", res.HTML},
	} {
		if link.path == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-8s %s/%s", link.kind, s.client.BaseURL(), strings.TrimLeft(link.path, "/")))
	}
	if len(lines) == 0 {
		s.set(id, SurfaceExport, formatter.JSON(res.Raw))
		return nil
	}
	s.set(id, SurfaceExport, strings.Join(lines, "\n"))
	return nil
}

// LoadActions refreshes the recent-actions surface.
func (s *Session) LoadActions(ctx context.Context) error {
	actions, err := s.client.ActionsList(ctx, s.actionsLimit)
	if err != nil {
		s.report(SurfaceActions, err.Error())
		return err
	}
	s.report(SurfaceActions, formatter.JSON(actions))
	return nil
}

// renderBadges flattens a manifest classification into badge text lines.
func renderBadges(c artifacts.Classification) string {
	var b strings.Builder
	for i, badge := range c.Summary {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "[%s]", badge.Text)
	}
	for _, g := range c.Groups {
		fmt.Fprintf(&b, "\n%s (%d):", g.Label, g.Count)
		for _, badge := range g.Badges {
			fmt.Fprintf(&b, " [%s]", badge.Text)
		}
	}
	return b.String()
}
