package artifacts

import (
	"strings"
	"testing"
)

func manifestWith(keys ...string) *Manifest {
	return &Manifest{ArtifactCount: len(keys), ArtifactKeys: keys}
}

func TestClassifyMissing(t *testing.T) {
	for _, m := range []*Manifest{nil, {}, {ArtifactKeys: []string{"patch"}}} {
		c := Classify(m, DefaultThresholds())
		if !c.Missing {
			t.Fatalf("Classify(%+v).Missing = false, want true", m)
		}
		if len(c.Groups) != 0 {
			t.Errorf("missing manifest emitted %d key groups, want 0", len(c.Groups))
		}
		if len(c.Summary) != 2 {
			t.Fatalf("missing manifest emitted %d summary badges, want 2", len(c.Summary))
		}
		if c.Summary[0].Text != "No artifacts" {
			t.Errorf("first badge = %q, want No artifacts", c.Summary[0].Text)
		}
		if c.Summary[1].Text != "Manifest: missing" {
			t.Errorf("second badge = %q, want Manifest: missing", c.Summary[1].Text)
		}
	}
}

func TestClassifyHealthAndRichness(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		core     bool
		richness Richness
		health   Health
	}{
		{
			name:     "core four only",
			keys:     []string{"patch", "pr_title", "pr_draft", "commit_message"},
			core:     true,
			richness: Minimal,
			health:   Partial,
		},
		{
			name:     "core plus ops",
			keys:     []string{"patch", "pr_title", "pr_draft", "commit_message", "tests", "rollout"},
			core:     true,
			richness: Rich,
			health:   Complete,
		},
		{
			name:     "tests only",
			keys:     []string{"tests"},
			core:     false,
			richness: Thin,
			health:   Incomplete,
		},
		{
			name:     "rich but core missing",
			keys:     []string{"tests", "rollout", "risk", "manifest", "extra_a", "extra_b"},
			core:     false,
			richness: Rich,
			health:   Incomplete,
		},
	}

	for _, tt := range tests {
		c := Classify(manifestWith(tt.keys...), DefaultThresholds())
		if c.Missing {
			t.Fatalf("%s: unexpectedly missing", tt.name)
		}
		if c.CoreComplete != tt.core {
			t.Errorf("%s: CoreComplete = %v, want %v", tt.name, c.CoreComplete, tt.core)
		}
		if c.Richness != tt.richness {
			t.Errorf("%s: Richness = %q, want %q", tt.name, c.Richness, tt.richness)
		}
		if c.Health != tt.health {
			t.Errorf("%s: Health = %q, want %q", tt.name, c.Health, tt.health)
		}
	}
}

func TestClassifyConfigurableThresholds(t *testing.T) {
	m := manifestWith("patch", "pr_title", "pr_draft", "commit_message")
	c := Classify(m, Thresholds{Minimal: 2, Rich: 4})
	if c.Richness != Rich {
		t.Errorf("Richness = %q, want rich with lowered threshold", c.Richness)
	}
	if c.Health != Complete {
		t.Errorf("Health = %q, want complete with lowered threshold", c.Health)
	}
}

func TestClassifyGroupOrderAndBuckets(t *testing.T) {
	m := manifestWith("risk", "patch", "pr_title", "tests", "mystery_key")
	c := Classify(m, DefaultThresholds())

	var labels []string
	for _, g := range c.Groups {
		labels = append(labels, g.Label)
	}
	want := []string{"PR", "Patch", "Ops", "Risk", "Other"}
	if strings.Join(labels, ",") != strings.Join(want, ",") {
		t.Fatalf("group order = %v, want %v", labels, want)
	}
	if c.Groups[4].Badges[0].Text != "mystery_key" {
		t.Errorf("unknown key not bucketed into Other: %+v", c.Groups[4])
	}
}

func TestClassifyEmptyGroupsOmitted(t *testing.T) {
	c := Classify(manifestWith("patch", "manifest"), DefaultThresholds())
	if len(c.Groups) != 1 || c.Groups[0].Label != "Patch" {
		t.Fatalf("groups = %+v, want a single Patch group", c.Groups)
	}
}

func TestClassifyOverflowBadge(t *testing.T) {
	m := manifestWith("note_1", "note_2", "note_3", "note_4", "note_5", "note_6")
	c := Classify(m, DefaultThresholds())

	if len(c.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(c.Groups))
	}
	g := c.Groups[0]
	if g.Count != 6 {
		t.Errorf("group count = %d, want 6", g.Count)
	}
	if len(g.Badges) != 5 {
		t.Fatalf("got %d badges, want 4 keys + 1 overflow", len(g.Badges))
	}
	last := g.Badges[4]
	if last.Text != "+2 more" {
		t.Errorf("overflow badge = %q, want +2 more", last.Text)
	}
	if last.Key != "" {
		t.Error("overflow badge must not be clickable")
	}
	for _, b := range g.Badges[:4] {
		if b.Key == "" {
			t.Errorf("key badge %q missing Key", b.Text)
		}
	}
}

func TestKeyPreviewRouting(t *testing.T) {
	m := &Manifest{
		ArtifactCount: 2,
		ArtifactKeys:  []string{"patch", "pr_title"},
		GeneratedAt:   "2026-02-01T00:00:00Z",
		Paths:         map[string]string{"patch": "artifacts/p1/patch.diff"},
	}

	for _, key := range []string{"pr_title", "pr_draft", "commit_message"} {
		if got := KeyPreview(m, key).Target; got != TargetPR {
			t.Errorf("KeyPreview(%q).Target = %q, want pr", key, got)
		}
	}
	for _, key := range []string{"patch", "tests", "rollout", "risk", "manifest", "unheard_of"} {
		if got := KeyPreview(m, key).Target; got != TargetPatch {
			t.Errorf("KeyPreview(%q).Target = %q, want patch", key, got)
		}
	}
}

func TestKeyPreviewBody(t *testing.T) {
	m := &Manifest{
		ArtifactCount: 1,
		ArtifactKeys:  []string{"patch"},
		GeneratedAt:   "2026-02-01T00:00:00Z",
		Paths:         map[string]string{"patch": "artifacts/p1/patch.diff"},
	}

	p := KeyPreview(m, "patch")
	for _, want := range []string{
		"Artifact key: patch",
		"Unified diff patch artifact.",
		"Path: artifacts/p1/patch.diff",
		"Generated at 2026-02-01T00:00:00Z",
	} {
		if !strings.Contains(p.Body, want) {
			t.Errorf("preview body missing %q:\n%s", want, p.Body)
		}
	}

	p = KeyPreview(&Manifest{ArtifactCount: 1, ArtifactKeys: []string{"weird"}}, "weird")
	for _, want := range []string{
		"Artifact file generated for this proposal.",
		"Path: No path available",
		"Generated time unavailable",
	} {
		if !strings.Contains(p.Body, want) {
			t.Errorf("fallback preview body missing %q:\n%s", want, p.Body)
		}
	}
}
