package formatter

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableProposalListing(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "STATUS", "RISK", "TITLE")
	tbl.AddRow("prop_0042", "guard_passed", "low", "Tune retry backoff")
	tbl.AddRow("prop_0043", "generated", "medium", "Widen evidence window")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "STATUS", "RISK", "TITLE", "prop_0042", "guard_passed", "prop_0043", "medium"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "--") {
		t.Errorf("missing header separator:\n%s", out)
	}

	// Header, separator, two proposal rows.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
}

func TestTableEmptyListing(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "STATUS")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// No rows means no output, not a lone header.
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty listing, got:\n%s", buf.String())
	}
}

func TestTableTruncatesLongTitles(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "TITLE")
	tbl.SetMaxWidth(1, 20)
	tbl.AddRow("prop_0044", "Replace the proposal guard pipeline with a two-phase evaluator")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Replace the propo...") {
		t.Errorf("title not truncated at max width:\n%s", out)
	}
	if strings.Contains(out, "two-phase") {
		t.Errorf("truncated title leaked past the cap:\n%s", out)
	}
}

func TestTableShortValuesUntouched(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "RISK")
	tbl.SetMaxWidth(1, 10)
	tbl.AddRow("prop_0045", "high")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "high") {
		t.Errorf("short value mangled:\n%s", buf.String())
	}
}

func TestTableRaggedRows(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "STATUS", "RISK")
	tbl.AddRow("prop_0046", "applied", "low", "ignored extra")
	tbl.AddRow("prop_0047")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "ignored extra") {
		t.Errorf("value beyond header count rendered:\n%s", out)
	}
	if !strings.Contains(out, "prop_0047") {
		t.Errorf("short row dropped:\n%s", out)
	}
}
