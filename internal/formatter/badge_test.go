package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/boshu2/evconsole/internal/status"
)

func TestBadge(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	for _, level := range []status.Level{status.Good, status.Warn, status.Bad, status.Unknown} {
		want := "[" + string(level) + "]"
		if got := Badge(level); got != want {
			t.Errorf("Badge(%s) = %q, want %q", level, got, want)
		}
	}
	if got := Badge(status.Level("bogus")); got != "[bogus]" {
		t.Errorf("Badge(bogus) = %q", got)
	}
}

func TestJSON(t *testing.T) {
	got := JSON(map[string]any{"status": "good"})
	if !strings.Contains(got, `"status": "good"`) {
		t.Errorf("JSON output = %q", got)
	}
	// Marshal failures must still produce text.
	if JSON(make(chan int)) == "" {
		t.Error("JSON of unmarshalable value returned empty string")
	}
}

func TestCards(t *testing.T) {
	var buf bytes.Buffer
	err := Cards(&buf, []Card{{Label: "Ready", Value: "ok"}, {Label: "Entries", Value: "0"}})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Ready") || !strings.Contains(out, "Entries") {
		t.Errorf("cards output missing labels:\n%s", out)
	}
}
