// Package api is the JSON-over-HTTP client for the ops/evolution API
// server. Responses are decoded leniently: missing fields default to zero
// values, and a non-2xx response becomes an error carrying the
// pretty-printed response body as its message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. A non-positive timeout falls back
// to 30 seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// StatusError is a non-2xx response. Its message is the pretty-printed
// response body, matching what the operator would see in the raw payload.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string { return e.Body }

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	if body == nil {
		body = map[string]any{}
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: prettyBody(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// prettyBody re-indents a JSON body for display, falling back to the raw
// text when the body is not JSON.
func prettyBody(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return strings.TrimSpace(string(data))
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return strings.TrimSpace(string(data))
	}
	return string(pretty)
}

// Raw status snapshots. These surfaces are printed verbatim, so the raw
// payload shape is kept.

func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/health")
}

func (c *Client) Ready(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/ready")
}

func (c *Client) Telemetry(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/telemetry")
}

func (c *Client) GatesSummary(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/gates/summary")
}

func (c *Client) GatePortalLatest(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/gates/portal/latest")
}

func (c *Client) MigrationState(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/migration/state")
}

func (c *Client) RestoreDrillLatest(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/restore-drill/latest")
}

func (c *Client) SystemMonitor(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/system/monitor")
}

// OverviewStatusSnapshot fetches the composed overview status.
func (c *Client) OverviewStatusSnapshot(ctx context.Context) (*OverviewStatus, error) {
	var out OverviewStatus
	if err := c.getJSON(ctx, "/v1/system/overview-status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EvolutionStatus(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/evolution/status")
}

func (c *Client) EvolutionSummary(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/evolution/summary")
}

func (c *Client) EvolutionPortal(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/evolution/portal")
}

func (c *Client) EvolutionNav(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/evolution/nav")
}

func (c *Client) EvolutionFinal(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/evolution/final")
}

func (c *Client) EvidenceIndex(ctx context.Context) (map[string]any, error) {
	return c.getRaw(ctx, "/v1/evolution/evidence/index")
}

func (c *Client) ActionsList(ctx context.Context, limit int) (map[string]any, error) {
	return c.getRaw(ctx, fmt.Sprintf("/v1/evolution/actions/list?limit=%d", limit))
}

func (c *Client) getRaw(ctx context.Context, path string) (map[string]any, error) {
	var out map[string]any
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BundleKinds are the evolution bundles that can be re-rendered
// server-side.
var BundleKinds = []string{"dashboard", "portal", "final"}

// RenderBundle requests a server-side re-render of one evolution bundle.
func (c *Client) RenderBundle(ctx context.Context, kind string, limit int) (map[string]any, error) {
	valid := false
	for _, k := range BundleKinds {
		if k == kind {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown bundle kind %q (want one of %s)", kind, strings.Join(BundleKinds, ", "))
	}
	var out map[string]any
	err := c.postJSON(ctx, fmt.Sprintf("/v1/evolution/%s/render", kind), map[string]any{"limit": limit}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ProposalFilter narrows the proposal listing. Empty fields are omitted
// from the query.
type ProposalFilter struct {
	Status    string
	RiskLevel string
	Subject   string
}

// Proposals lists proposals matching the filter.
func (c *Client) Proposals(ctx context.Context, f ProposalFilter) (*ProposalList, error) {
	qs := url.Values{}
	if f.Status != "" {
		qs.Set("status", f.Status)
	}
	if f.RiskLevel != "" {
		qs.Set("risk_level", f.RiskLevel)
	}
	if f.Subject != "" {
		qs.Set("subject", f.Subject)
	}
	var out ProposalList
	if err := c.getJSON(ctx, "/v1/evolution/proposals/list?"+qs.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Proposal fetches one proposal's own record.
func (c *Client) Proposal(ctx context.Context, id string) (*Proposal, error) {
	var out Proposal
	if err := c.getJSON(ctx, "/v1/evolution/proposals/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EvidenceNavProposal fetches the navigation/evidence bundle for one
// proposal (guard checks, baseline comparison, recent actions).
func (c *Client) EvidenceNavProposal(ctx context.Context, id string) (*NavBundle, error) {
	var out NavBundle
	if err := c.getJSON(ctx, "/v1/evolution/evidence/nav/proposals/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ArtifactPreview fetches the rendered artifact text preview.
func (c *Client) ArtifactPreview(ctx context.Context, id string) (*PreviewBundle, error) {
	var out PreviewBundle
	if err := c.getJSON(ctx, "/v1/evolution/proposals/"+url.PathEscape(id)+"/artifacts/preview", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ArtifactManifest fetches the artifact manifest.
func (c *Client) ArtifactManifest(ctx context.Context, id string) (*ManifestBundle, error) {
	var out ManifestBundle
	if err := c.getJSON(ctx, "/v1/evolution/proposals/"+url.PathEscape(id)+"/artifacts/manifest", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActionRequest is the body of a lifecycle action. Reason stays null when
// the operator entered none.
type ActionRequest struct {
	Actor  string  `json:"actor"`
	Reason *string `json:"reason"`
}

// ProposalAction submits one lifecycle action (approve, reject, apply,
// rollback). The endpoint is not idempotent; the client never retries.
func (c *Client) ProposalAction(ctx context.Context, id, kind string, req ActionRequest) (map[string]any, error) {
	var out map[string]any
	err := c.postJSON(ctx, "/v1/evolution/proposals/"+url.PathEscape(id)+"/"+kind, req, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenderArtifacts requests artifact rendering for a proposal.
func (c *Client) RenderArtifacts(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.postJSON(ctx, "/v1/evolution/proposals/"+url.PathEscape(id)+"/artifacts/render", nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExportReview requests a review export bundle for one section
// (artifacts, baseline, guard, all).
func (c *Client) ExportReview(ctx context.Context, id, section string) (*ExportResult, error) {
	var out ExportResult
	path := "/v1/evolution/proposals/" + url.PathEscape(id) + "/review/export?section=" + url.QueryEscape(section)
	if err := c.postJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
