package overview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/status"
)

func overviewServer(t *testing.T, restoreFails bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	respond := func(w http.ResponseWriter, v any) {
		//nolint:errcheck // test server
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"system": "opsmesh", "ai_providers": []any{"a", "b"}})
	})
	mux.HandleFunc("/v1/ready", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"status": "ready"})
	})
	mux.HandleFunc("/v1/telemetry", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"aggregate": map[string]any{"http": map[string]any{"requests_total": 42}}})
	})
	mux.HandleFunc("/v1/gates/summary", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"summary": map[string]any{
			"release":  map[string]any{"passed": 3, "total": 4},
			"rollback": map[string]any{"passed": 2, "total": 2},
		}})
	})
	mux.HandleFunc("/v1/migration/state", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"status": "applied"})
	})
	mux.HandleFunc("/v1/gates/portal/latest", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"portal": "gates/portal.json"})
	})
	mux.HandleFunc("/v1/restore-drill/latest", func(w http.ResponseWriter, r *http.Request) {
		if restoreFails {
			w.WriteHeader(http.StatusNotFound)
			respond(w, map[string]any{"error": "no drill yet"})
			return
		}
		respond(w, map[string]any{"updated_at": "2026-04-01T00:00:00Z"})
	})
	mux.HandleFunc("/v1/system/overview-status", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"sections": map[string]any{
			"release": map[string]any{"status": "good", "passed": 3, "total": 4,
				"last_updated": "2026-04-01T08:00:00Z",
				"timeline":     []any{map[string]any{"status": "good", "label": "gate"}},
			},
			"rollback":  map[string]any{"status": "good", "passed": 2, "total": 2},
			"restore":   map[string]any{"status": "warn", "available": true},
			"migration": map[string]any{"status": "applied", "ok": true},
			"evolution": map[string]any{"status": "warn", "pending_approval": 2, "actionable": 1},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadOverview(t *testing.T) {
	srv := overviewServer(t, false)
	c := api.New(srv.URL, time.Second)

	snap, err := LoadOverview(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}

	cards := map[string]string{}
	for _, card := range snap.Cards {
		cards[card.Label] = card.Value
	}
	want := map[string]string{
		"System":        "opsmesh",
		"Ready":         "ready",
		"Providers":     "2",
		"HTTP req":      "42",
		"Release pass":  "3/4",
		"Rollback pass": "2/2",
		"Migration":     "applied",
		"Restore drill": "available",
	}
	for label, value := range want {
		if cards[label] != value {
			t.Errorf("card %q = %q, want %q", label, cards[label], value)
		}
	}

	statuses := map[string]StatusCard{}
	for _, card := range snap.StatusCards {
		statuses[card.Label] = card
	}
	if got := statuses["Evolution actionable"]; got.Value != "1" || got.Status != status.Warn {
		t.Errorf("Evolution actionable card = %+v", got)
	}
	if got := statuses["Migration"]; got.Value != "applied" || got.Status != status.Good {
		t.Errorf("Migration card = %+v", got)
	}
	if got := statuses["Restore"]; got.Value != "available" || got.Status != status.Warn {
		t.Errorf("Restore card = %+v", got)
	}

	if len(snap.PortalCards) != 4 {
		t.Fatalf("got %d portal cards, want 4", len(snap.PortalCards))
	}
	if snap.PortalCards[0].Updated != "2026-04-01T08:00:00Z" {
		t.Errorf("release portal updated = %q", snap.PortalCards[0].Updated)
	}

	// The composed context feeds the timeline aggregator.
	if len(snap.Context.Sections["release"].Timeline) != 1 {
		t.Errorf("timeline context not populated: %+v", snap.Context)
	}
}

func TestLoadOverviewToleratesMissingRestoreDrill(t *testing.T) {
	srv := overviewServer(t, true)
	c := api.New(srv.URL, time.Second)

	snap, err := LoadOverview(context.Background(), c)
	if err != nil {
		t.Fatalf("missing restore drill failed the composite load: %v", err)
	}
	if snap.Restore.OK {
		t.Error("Restore.OK = true, want false")
	}
	for _, card := range snap.Cards {
		if card.Label == "Restore drill" && card.Value != "missing" {
			t.Errorf("Restore drill card = %q, want missing", card.Value)
		}
	}
}

func TestLoadMonitor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/system/monitor", func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck // test server
		w.Write([]byte(`{"system":"opsmesh","version":"1.4.0",
			"ready":{"status":"ready","checks":{"db":true,"skills":false}},
			"recovery":{"mode":"ha","lock_backend":"db","heartbeat_age_s":2.25},
			"entropy":{"entropy_score":0.31,"risk_level":"low"},
			"telemetry":{"aggregate":{"http":{}}},
			"host":{"cpu":4}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	view, err := LoadMonitor(context.Background(), api.New(srv.URL, time.Second))
	if err != nil {
		t.Fatal(err)
	}
	cards := map[string]string{}
	for _, card := range view.Cards {
		cards[card.Label] = card.Value
	}
	want := map[string]string{
		"System":        "opsmesh",
		"Version":       "1.4.0",
		"Ready":         "ready",
		"DB":            "ok",
		"Skills":        "fail",
		"Recovery mode": "ha",
		"Lock backend":  "db",
		"Heartbeat age": "2.2s",
		"Entropy score": "0.31",
		"Entropy risk":  "low",
	}
	for label, value := range want {
		if cards[label] != value {
			t.Errorf("card %q = %q, want %q", label, cards[label], value)
		}
	}
	if view.Host["cpu"] == nil {
		t.Error("host submap not extracted")
	}
}

func TestLoadMonitorDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/system/monitor", func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck // test server
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	view, err := LoadMonitor(context.Background(), api.New(srv.URL, time.Second))
	if err != nil {
		t.Fatal(err)
	}
	cards := map[string]string{}
	for _, card := range view.Cards {
		cards[card.Label] = card.Value
	}
	if cards["Recovery mode"] != "single" || cards["Lock backend"] != "file" {
		t.Errorf("recovery defaults = %q/%q", cards["Recovery mode"], cards["Lock backend"])
	}
	if cards["Heartbeat age"] != "n/a" || cards["Entropy score"] != "n/a" {
		t.Errorf("missing-value defaults = %q/%q", cards["Heartbeat age"], cards["Entropy score"])
	}
}

func TestPollerSingleOwnership(t *testing.T) {
	var ticks atomic.Int64
	p := &Poller{}

	p.SetInterval(10*time.Millisecond, func() { ticks.Add(1) })
	if !p.Active() {
		t.Fatal("poller not active after SetInterval")
	}

	// Replacing the interval must cancel the previous timer.
	p.SetInterval(10*time.Millisecond, func() { ticks.Add(1) })
	time.Sleep(55 * time.Millisecond)
	p.Stop()
	if p.Active() {
		t.Fatal("poller active after Stop")
	}

	got := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != got {
		t.Error("ticks continued after Stop")
	}
	// One live timer at ~10ms over ~55ms: well under what two
	// concurrent timers would produce.
	if got > 8 {
		t.Errorf("tick count %d suggests duplicate timers", got)
	}

	p.SetInterval(0, func() { ticks.Add(1) })
	if p.Active() {
		t.Error("zero interval should disable polling")
	}
}
