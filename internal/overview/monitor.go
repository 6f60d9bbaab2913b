package overview

import (
	"context"
	"fmt"

	"github.com/boshu2/evconsole/internal/api"
	"github.com/boshu2/evconsole/internal/formatter"
)

// MonitorView is one system-monitor snapshot with its derived cards.
type MonitorView struct {
	Raw       map[string]any
	Recovery  map[string]any
	Host      map[string]any
	Telemetry map[string]any
	Entropy   map[string]any
	Cards     []formatter.Card
}

// LoadMonitor fetches the composite system-monitor snapshot and derives
// the monitor cards.
func LoadMonitor(ctx context.Context, c *api.Client) (*MonitorView, error) {
	data, err := c.SystemMonitor(ctx)
	if err != nil {
		return nil, err
	}

	view := &MonitorView{
		Raw:       data,
		Recovery:  subMap(data, "recovery"),
		Host:      subMap(data, "host"),
		Telemetry: subMap(data, "telemetry"),
		Entropy:   subMap(data, "entropy"),
	}
	if agg := subMap(view.Telemetry, "aggregate"); agg != nil {
		view.Telemetry = agg
	}

	heartbeat := "n/a"
	if age, ok := dig(data, "recovery", "heartbeat_age_s").(float64); ok {
		heartbeat = fmt.Sprintf("%.1fs", age)
	}
	entropyScore := "n/a"
	if score := dig(data, "entropy", "entropy_score"); score != nil {
		entropyScore = fmt.Sprint(score)
	}

	view.Cards = []formatter.Card{
		{Label: "System", Value: digStr(data, "unknown", "system")},
		{Label: "Version", Value: digStr(data, "unknown", "version")},
		{Label: "Ready", Value: digStr(data, "unknown", "ready", "status")},
		{Label: "DB", Value: checkResult(data, "db")},
		{Label: "Skills", Value: checkResult(data, "skills")},
		{Label: "Recovery mode", Value: digStr(data, "single", "recovery", "mode")},
		{Label: "Lock backend", Value: digStr(data, "file", "recovery", "lock_backend")},
		{Label: "Heartbeat age", Value: heartbeat},
		{Label: "Entropy score", Value: entropyScore},
		{Label: "Entropy risk", Value: digStr(data, "unknown", "entropy", "risk_level")},
	}
	return view, nil
}

func subMap(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

func checkResult(data map[string]any, check string) string {
	if ok, _ := dig(data, "ready", "checks", check).(bool); ok {
		return "ok"
	}
	return "fail"
}
