package review

import (
	"fmt"
	"io"
)

// Surface names one output pane of the review console. Every session
// operation writes its result, placeholder, or error text to a surface;
// nothing is ever thrown past this boundary.
type Surface string

const (
	SurfaceDetail        Surface = "proposal-detail"
	SurfaceReviewSummary Surface = "review-summary"
	SurfaceGuard         Surface = "guard-summary"
	SurfaceBaseline      Surface = "baseline-summary"
	SurfaceActions       Surface = "proposal-actions"
	SurfaceArtifacts     Surface = "proposal-artifacts"
	SurfaceManifest      Surface = "artifact-manifest"
	SurfaceBadges        Surface = "artifact-badges"
	SurfacePRPreview     Surface = "pr-preview"
	SurfacePatchPreview  Surface = "patch-preview"
	SurfaceActionResult  Surface = "action-result"
	SurfaceExport        Surface = "export-result"
	SurfaceEvolution     Surface = "evolution-summary"
)

// Screen receives rendered surface text. The console implementation
// prints sectioned text; tests substitute a recorder.
type Screen interface {
	Set(surface Surface, text string)
}

// ConsoleScreen prints each surface update as a titled section.
type ConsoleScreen struct {
	W io.Writer
}

func (c *ConsoleScreen) Set(surface Surface, text string) {
	//nolint:errcheck // console output to stdout
	fmt.Fprintf(c.W, "\n── %s ──\n%s\n", surface, text)
}
