// Package client talks to the LangSmith REST API and owns the backend
// connection lifecycle for the tool gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/config"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// maxResponseSize caps response bodies to prevent OOM from unexpectedly
// large payloads.
const maxResponseSize = 50 << 20 // 50MB

// Client communicates with the LangSmith REST API. Every request carries
// the x-api-key header; read-only catalog endpoints go through a small TTL
// cache.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	cache      *responseCache
}

// NewClient creates a client targeting the configured LangSmith endpoint.
func NewClient(cfg config.LangSmithConfig, cacheCfg config.CacheConfig, logger *common.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var cache *responseCache
	if cacheCfg.TTLSeconds > 0 {
		cache = newResponseCache(time.Duration(cacheCfg.TTLSeconds)*time.Second, cacheCfg.MaxEntries)
	}

	return &Client{
		baseURL:    trimTrailingSlash(cfg.Endpoint),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		cache:      cache,
	}
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Handshake probes the backend to confirm the endpoint and credential are
// usable. Called exactly once by the gateway on first use.
func (c *Client) Handshake(ctx context.Context) error {
	_, err := c.get(ctx, "/info", nil, false)
	return err
}

// ListDatasets fetches datasets matching the filter.
func (c *Client) ListDatasets(ctx context.Context, f DatasetFilter) ([]Dataset, error) {
	q := url.Values{}
	for _, id := range f.IDs {
		q.Add("id", id)
	}
	if f.DataType != "" {
		q.Set("data_type", f.DataType)
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.NameContains != "" {
		q.Set("name_contains", f.NameContains)
	}
	if len(f.Metadata) > 0 {
		meta, err := json.Marshal(f.Metadata)
		if err != nil {
			return nil, tools.Errorf(tools.KindValidation, "metadata filter is not encodable: %v", err)
		}
		q.Set("metadata", string(meta))
	}
	if f.CreatedAfter != "" {
		q.Set("created_after", f.CreatedAfter)
	}
	if f.CreatedBefore != "" {
		q.Set("created_before", f.CreatedBefore)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	body, err := c.get(ctx, "/datasets", q, true)
	if err != nil {
		return nil, err
	}
	var datasets []Dataset
	if err := json.Unmarshal(body, &datasets); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse dataset listing: %v", err)
	}
	return datasets, nil
}

// ListExamples fetches examples for one dataset, optionally pinned to a
// historical version via AsOf.
func (c *Client) ListExamples(ctx context.Context, eq ExampleQuery) ([]Example, error) {
	q := url.Values{}
	q.Set("dataset", eq.DatasetID)
	if eq.Limit > 0 {
		q.Set("limit", strconv.Itoa(eq.Limit))
	}
	if eq.Offset > 0 {
		q.Set("offset", strconv.Itoa(eq.Offset))
	}
	if eq.AsOf != "" {
		q.Set("as_of", eq.AsOf)
	}

	body, err := c.get(ctx, "/examples", q, false)
	if err != nil {
		return nil, err
	}
	var examples []Example
	if err := json.Unmarshal(body, &examples); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse example listing: %v", err)
	}
	return examples, nil
}

// ReadExample fetches one example by id.
func (c *Client) ReadExample(ctx context.Context, id, asOf string) (*Example, error) {
	q := url.Values{}
	if asOf != "" {
		q.Set("as_of", asOf)
	}
	body, err := c.get(ctx, "/examples/"+url.PathEscape(id), q, false)
	if err != nil {
		return nil, err
	}
	var example Example
	if err := json.Unmarshal(body, &example); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse example: %v", err)
	}
	return &example, nil
}

// ListPrompts fetches prompt repos.
func (c *Client) ListPrompts(ctx context.Context, pq PromptQuery) ([]Prompt, error) {
	q := url.Values{}
	q.Set("is_public", strconv.FormatBool(pq.IsPublic))
	if pq.Limit > 0 {
		q.Set("limit", strconv.Itoa(pq.Limit))
	}

	body, err := c.get(ctx, "/repos", q, true)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Repos []Prompt `json:"repos"`
		Total int      `json:"total"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse prompt listing: %v", err)
	}
	return resp.Repos, nil
}

// GetPrompt fetches one prompt repo by owner and name.
func (c *Client) GetPrompt(ctx context.Context, owner, name string) (*Prompt, error) {
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
	body, err := c.get(ctx, path, nil, false)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Repo Prompt `json:"repo"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse prompt: %v", err)
	}
	return &resp.Repo, nil
}

// GetPromptManifest fetches the latest commit manifest for a prompt repo:
// template messages, variables, and version metadata.
func (c *Client) GetPromptManifest(ctx context.Context, owner, name string) (*PromptManifest, error) {
	path := "/commits/" + url.PathEscape(owner) + "/" + url.PathEscape(name) + "/latest"
	body, err := c.get(ctx, path, nil, false)
	if err != nil {
		return nil, err
	}
	var manifest PromptManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse prompt manifest: %v", err)
	}
	return &manifest, nil
}

// QueryRuns fetches runs matching the query.
func (c *Client) QueryRuns(ctx context.Context, rq RunQuery) ([]Run, error) {
	payload := map[string]any{}
	if rq.ProjectName != "" {
		payload["session_name"] = rq.ProjectName
	}
	if len(rq.IDs) > 0 {
		payload["id"] = rq.IDs
	}
	if rq.TraceID != "" {
		payload["trace"] = rq.TraceID
	}
	if rq.Filter != "" {
		payload["filter"] = rq.Filter
	}
	if rq.RunType != "" {
		payload["run_type"] = rq.RunType
	}
	if rq.IsRoot {
		payload["is_root"] = true
	}
	if len(rq.Select) > 0 {
		payload["select"] = rq.Select
	}
	if rq.Limit > 0 {
		payload["limit"] = rq.Limit
	}

	body, err := c.post(ctx, "/runs/query", payload)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Runs []Run `json:"runs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse run listing: %v", err)
	}
	return resp.Runs, nil
}

// ReadRun fetches one run by id.
func (c *Client) ReadRun(ctx context.Context, id string) (*Run, error) {
	body, err := c.get(ctx, "/runs/"+url.PathEscape(id), nil, false)
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse run: %v", err)
	}
	return &run, nil
}

// GetRunStats fetches aggregate run statistics for the selected population.
func (c *Client) GetRunStats(ctx context.Context, sq StatsQuery) (map[string]any, error) {
	payload := map[string]any{}
	if len(sq.ProjectNames) > 0 {
		payload["session_names"] = sq.ProjectNames
	}
	if sq.TraceID != "" {
		payload["trace"] = sq.TraceID
	}

	body, err := c.post(ctx, "/runs/stats", payload)
	if err != nil {
		return nil, err
	}
	var stats map[string]any
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse run stats: %v", err)
	}
	return stats, nil
}

// GetProject fetches one tracing project by exact name.
func (c *Client) GetProject(ctx context.Context, name string) (*Project, error) {
	q := url.Values{}
	q.Set("name", name)
	body, err := c.get(ctx, "/sessions", q, false)
	if err != nil {
		return nil, err
	}
	var projects []Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, tools.Errorf(tools.KindBackend, "failed to parse project listing: %v", err)
	}
	if len(projects) == 0 {
		return nil, tools.Errorf(tools.KindNotFound, "project %q not found", name)
	}
	return &projects[0], nil
}

// get performs a GET request. Cacheable requests are served from and stored
// into the response cache when one is configured.
func (c *Client) get(ctx context.Context, path string, q url.Values, cacheable bool) ([]byte, error) {
	target := path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	if cacheable && c.cache != nil {
		if body, ok := c.cache.get("GET:" + target); ok {
			c.logger.Debug().Str("path", target).Msg("cache hit")
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+target, nil)
	if err != nil {
		return nil, tools.Errorf(tools.KindInternal, "failed to build request: %v", err)
	}

	body, err := c.do(req, target)
	if err != nil {
		return nil, err
	}

	if cacheable && c.cache != nil {
		c.cache.set("GET:"+target, body)
	}
	return body, nil
}

// post performs a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, tools.Errorf(tools.KindInternal, "failed to encode request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, tools.Errorf(tools.KindInternal, "failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path)
}

// do executes the request, logs it, and maps the outcome onto the gateway
// error taxonomy.
func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	req.Header.Set("x-api-key", c.apiKey)

	c.logger.Debug().Str("method", req.Method).Str("path", path).Msg("backend request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn().
			Str("method", req.Method).
			Str("path", path).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("backend request failed")
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, tools.Errorf(tools.KindNetwork, "failed to read response: %v", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn().
			Str("method", req.Method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("backend returned error status")
		return nil, classifyStatus(resp.StatusCode, path, body)
	}

	return body, nil
}

// classifyTransportError maps connection and deadline failures to the
// retriable network kind.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return tools.Errorf(tools.KindNetwork, "request canceled")
	}
	return tools.Errorf(tools.KindNetwork, "backend unreachable: %v", err)
}

// classifyStatus maps an HTTP error status to the gateway error taxonomy.
func classifyStatus(status int, path string, body []byte) error {
	switch status {
	case http.StatusNotFound:
		return tools.Errorf(tools.KindNotFound, "resource not found: %s", path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return tools.Errorf(tools.KindBackend, "backend rejected credentials (status %d)", status)
	default:
		return tools.Errorf(tools.KindBackend, "backend returned %d: %s", status, snippet(body))
	}
}

// snippet truncates an error body for log and message safety.
func snippet(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
