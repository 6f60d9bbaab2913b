package api

import (
	"encoding/json"

	"github.com/boshu2/evconsole/internal/artifacts"
	"github.com/boshu2/evconsole/internal/timeline"
)

// OverviewStatus is the composed overview snapshot. Sections feed the
// timeline aggregator and status cards; Raw keeps the full payload for
// verbatim display.
type OverviewStatus struct {
	Sections map[string]timeline.Section
	Raw      map[string]any
}

func (o *OverviewStatus) UnmarshalJSON(data []byte) error {
	var typed struct {
		Sections map[string]timeline.Section `json:"sections"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	o.Sections = typed.Sections
	// Raw decode failure is impossible once the typed decode succeeded.
	_ = json.Unmarshal(data, &o.Raw)
	return nil
}

// Risk is the backend's risk assessment for a proposal.
type Risk struct {
	RiskLevel        string  `json:"risk_level,omitempty"`
	RiskScore        float64 `json:"risk_score,omitempty"`
	AutoApplyAllowed bool    `json:"auto_apply_allowed,omitempty"`
}

// Proposal is one evolution proposal record. Raw keeps the full payload
// for the detail surface.
type Proposal struct {
	ProposalID       string            `json:"proposal_id"`
	Title            string            `json:"title,omitempty"`
	Status           string            `json:"status,omitempty"`
	SourceSubject    string            `json:"source_subject,omitempty"`
	Risk             Risk              `json:"risk,omitempty"`
	ApprovalRequired bool              `json:"approval_required,omitempty"`
	ArtifactPaths    map[string]string `json:"artifact_paths,omitempty"`

	Raw map[string]any `json:"-"`
}

func (p *Proposal) UnmarshalJSON(data []byte) error {
	type alias Proposal
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Proposal(a)
	_ = json.Unmarshal(data, &p.Raw)
	return nil
}

// ProposalList is the proposal listing response.
type ProposalList struct {
	Items []Proposal `json:"items"`
}

// GuardCheck is one pass/fail validation performed by the pipeline.
type GuardCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Guard is the guard-check result attached to a proposal's nav bundle.
type Guard struct {
	GuardID string       `json:"guard_id,omitempty"`
	Status  string       `json:"status,omitempty"`
	Checks  []GuardCheck `json:"checks,omitempty"`
}

// Baseline is the baseline-regression comparison for a proposal.
type Baseline struct {
	BaselineID         string `json:"baseline_id,omitempty"`
	RegressionDetected bool   `json:"regression_detected,omitempty"`
	Summary            string `json:"summary,omitempty"`
	Diff               any    `json:"diff,omitempty"`
}

// NavBundle is the navigation/evidence bundle for one proposal. Guard and
// Baseline stay nil when the backend has not produced them.
type NavBundle struct {
	Proposal *Proposal        `json:"proposal,omitempty"`
	Guard    *Guard           `json:"guard,omitempty"`
	Baseline *Baseline        `json:"baseline,omitempty"`
	Actions  []map[string]any `json:"actions,omitempty"`
}

// ArtifactText is the rendered text preview of a proposal's artifacts.
type ArtifactText struct {
	PRTitle       string `json:"pr_title,omitempty"`
	PRDraft       string `json:"pr_draft,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
	Patch         string `json:"patch,omitempty"`
	Tests         string `json:"tests,omitempty"`
	Rollout       string `json:"rollout,omitempty"`
}

// PreviewBundle wraps the artifact preview response.
type PreviewBundle struct {
	Preview ArtifactText `json:"preview"`
}

// ManifestBundle wraps the artifact manifest response.
type ManifestBundle struct {
	Manifest *artifacts.Manifest `json:"manifest"`
}

// ExportResult is the review-export response. Any of the three output
// paths may be absent; Raw keeps the full payload for the fallback dump.
type ExportResult struct {
	JSON     string `json:"json,omitempty"`
	Markdown string `json:"markdown,omitempty"`
	HTML     string `json:"html,omitempty"`

	Raw map[string]any `json:"-"`
}

func (e *ExportResult) UnmarshalJSON(data []byte) error {
	type alias ExportResult
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = ExportResult(a)
	_ = json.Unmarshal(data, &e.Raw)
	return nil
}
