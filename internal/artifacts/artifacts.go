// Package artifacts classifies a proposal's artifact manifest into grouped
// key badges and derived completeness signals for the review surfaces.
package artifacts

import (
	"fmt"
	"strings"
)

// Manifest is the artifact index returned by the manifest endpoint.
type Manifest struct {
	ArtifactCount int               `json:"artifact_count"`
	ArtifactKeys  []string          `json:"artifact_keys"`
	GeneratedAt   string            `json:"generated_at,omitempty"`
	Paths         map[string]string `json:"paths,omitempty"`
}

// Thresholds holds the richness cut-offs. They reflect the backend's
// typical artifact set rather than a universal rule, so they stay
// configurable.
type Thresholds struct {
	Minimal int
	Rich    int
}

// DefaultThresholds matches the backend's usual bundle sizes.
func DefaultThresholds() Thresholds { return Thresholds{Minimal: 3, Rich: 6} }

// Richness grades the overall artifact volume.
type Richness string

const (
	Rich    Richness = "rich"
	Minimal Richness = "minimal"
	Thin    Richness = "thin"
)

// Health grades manifest completeness relative to the core patch set.
type Health string

const (
	Complete   Health = "complete"
	Partial    Health = "partial"
	Incomplete Health = "incomplete"
)

// Badge is one display badge. Key is set only on clickable key badges.
type Badge struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
	Help string `json:"help"`
	Key  string `json:"key,omitempty"`
}

// Group is an ordered bucket of key badges.
type Group struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Badges []Badge `json:"badges"`
}

// Classification is the full derived state for one manifest.
type Classification struct {
	Missing      bool     `json:"missing"`
	CoreComplete bool     `json:"core_complete"`
	Richness     Richness `json:"richness,omitempty"`
	Health       Health   `json:"health,omitempty"`
	Summary      []Badge  `json:"summary"`
	Groups       []Group  `json:"groups,omitempty"`
}

// maxKeyBadges caps individual key badges per group; overflow collapses
// into a single "+N more" badge so the count is never lost.
const maxKeyBadges = 4

var coreKeys = []string{"patch", "pr_title", "pr_draft", "commit_message"}

var groupOrder = []string{"PR", "Patch", "Ops", "Risk", "Other"}

func groupForKey(key string) string {
	switch key {
	case "pr_title", "pr_draft", "commit_message":
		return "PR"
	case "patch", "manifest":
		return "Patch"
	case "tests", "rollout":
		return "Ops"
	case "risk":
		return "Risk"
	default:
		return "Other"
	}
}

// Classify derives grouped badges and health signals from a manifest.
// A nil or empty manifest yields the explicit no-artifacts state rather
// than an empty group list.
func Classify(m *Manifest, t Thresholds) Classification {
	if m == nil || m.ArtifactCount == 0 {
		return Classification{
			Missing: true,
			Summary: []Badge{
				{Text: "No artifacts", Tone: "missing",
					Help: "Artifacts have not been rendered for this proposal yet. Render artifacts to generate the manifest bundle."},
				{Text: "Manifest: missing", Tone: "neutral",
					Help: "No manifest data is currently loaded for this proposal."},
			},
		}
	}

	keys := m.ArtifactKeys
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	coreComplete := true
	for _, k := range coreKeys {
		if !present[k] {
			coreComplete = false
			break
		}
	}

	var richness Richness
	switch {
	case m.ArtifactCount >= t.Rich:
		richness = Rich
	case m.ArtifactCount >= t.Minimal:
		richness = Minimal
	default:
		richness = Thin
	}

	health := Incomplete
	if coreComplete {
		if richness == Rich {
			health = Complete
		} else {
			health = Partial
		}
	}

	c := Classification{
		CoreComplete: coreComplete,
		Richness:     richness,
		Health:       health,
		Summary:      summaryBadges(m, coreComplete, richness, health),
	}

	grouped := make(map[string][]string)
	for _, k := range keys {
		g := groupForKey(k)
		grouped[g] = append(grouped[g], k)
	}
	for _, label := range groupOrder {
		gkeys := grouped[label]
		if len(gkeys) == 0 {
			continue
		}
		group := Group{Label: label, Count: len(gkeys)}
		shown := gkeys
		if len(shown) > maxKeyBadges {
			shown = shown[:maxKeyBadges]
		}
		for _, k := range shown {
			group.Badges = append(group.Badges, Badge{
				Text: k,
				Tone: "key",
				Help: fmt.Sprintf("Artifact key: %s — preview for a summary", k),
				Key:  k,
			})
		}
		if overflow := len(gkeys) - maxKeyBadges; overflow > 0 {
			group.Badges = append(group.Badges, Badge{
				Text: fmt.Sprintf("+%d more", overflow),
				Tone: "neutral",
				Help: fmt.Sprintf("There are %d additional %s entries not shown in the preview badges.", overflow, label),
			})
		}
		c.Groups = append(c.Groups, group)
	}
	return c
}

func summaryBadges(m *Manifest, coreComplete bool, richness Richness, health Health) []Badge {
	healthTone := "bad"
	healthHelp := "Core patch artifacts are missing. Reviewer should render artifacts again before approval."
	switch health {
	case Complete:
		healthTone = "good"
		healthHelp = "Core patch, PR and commit artifacts are present with supporting files."
	case Partial:
		healthTone = "warn"
		healthHelp = "Core patch artifacts exist, but the bundle is still partial and may be missing supporting files."
	}

	generated := m.GeneratedAt != ""
	generatedText := "Generated: unknown"
	generatedTone := "neutral"
	generatedHelp := "Artifacts exist but generated_at is missing from the manifest."
	if generated {
		generatedText = "Generated: yes"
		generatedTone = "good"
		generatedHelp = fmt.Sprintf("Artifacts were rendered at %s.", m.GeneratedAt)
	}

	richnessTone := "bad"
	richnessHelp := "Thin bundle: very small artifact set; reviewer should verify whether rendering completed."
	switch richness {
	case Rich:
		richnessTone = "good"
		richnessHelp = "Rich bundle: patch, PR, commit, rollout and related artifact files are all present."
	case Minimal:
		richnessTone = "warn"
		richnessHelp = "Minimal bundle: enough artifacts exist for review, but supporting files are limited."
	}

	return []Badge{
		{Text: fmt.Sprintf("Artifacts: %d", m.ArtifactCount), Tone: healthTone,
			Help: fmt.Sprintf("Manifest contains %d artifact file(s).", m.ArtifactCount)},
		{Text: generatedText, Tone: generatedTone, Help: generatedHelp},
		{Text: fmt.Sprintf("Manifest: %s", health), Tone: healthTone, Help: healthHelp},
		{Text: fmt.Sprintf("Bundle: %s", richness), Tone: richnessTone, Help: richnessHelp},
	}
}

// PreviewTarget names the pane a key preview routes to.
type PreviewTarget string

const (
	// TargetPR is the PR text preview pane (titles, drafts, commit messages).
	TargetPR PreviewTarget = "pr"
	// TargetPatch is the patch preview pane (everything else).
	TargetPatch PreviewTarget = "patch"
)

// Preview is the textual summary produced by activating a key badge.
type Preview struct {
	Target PreviewTarget
	Body   string
}

var keyHelp = map[string]string{
	"patch":          "Unified diff patch artifact.",
	"pr_title":       "Suggested PR title.",
	"pr_draft":       "Suggested PR draft body.",
	"commit_message": "Suggested commit message.",
	"tests":          "Suggested tests to add.",
	"rollout":        "Suggested rollout notes.",
	"risk":           "Risk assessment JSON.",
	"manifest":       "Artifact manifest file.",
}

// KeyPreview builds the textual preview for one artifact key, routed to
// the PR pane for PR text keys and the patch pane for everything else.
func KeyPreview(m *Manifest, key string) Preview {
	help, ok := keyHelp[key]
	if !ok {
		help = "Artifact file generated for this proposal."
	}
	path := "No path available"
	if m != nil && m.Paths[key] != "" {
		path = m.Paths[key]
	}
	generated := "Generated time unavailable"
	if m != nil && m.GeneratedAt != "" {
		generated = fmt.Sprintf("Generated at %s", m.GeneratedAt)
	}
	body := strings.Join([]string{
		fmt.Sprintf("Artifact key: %s", key),
		"----------------",
		help,
		"",
		fmt.Sprintf("Path: %s", path),
		generated,
	}, "\n")

	target := TargetPatch
	if groupForKey(key) == "PR" {
		target = TargetPR
	}
	return Preview{Target: target, Body: body}
}
