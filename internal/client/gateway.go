package client

import (
	"context"
	"sync"

	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/config"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// State is the gateway connection lifecycle state. The only legal
// transitions are Uninitialized -> Ready and Uninitialized -> Failed, each
// at most once per process.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Gateway owns the single backend client handle. Initialization is lazy:
// the first domain operation triggers the credential check and handshake.
// The mutex serializes the one state transition, so concurrent first calls
// perform exactly one handshake and all observe the same final state.
type Gateway struct {
	mu      sync.Mutex
	state   State
	initErr error
	client  *Client

	lsCfg    config.LangSmithConfig
	cacheCfg config.CacheConfig
	logger   *common.Logger
}

// NewGateway creates an uninitialized gateway. No network activity happens
// until the first domain operation.
func NewGateway(cfg *config.Config, logger *common.Logger) *Gateway {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Gateway{
		state:    StateUninitialized,
		lsCfg:    cfg.LangSmith,
		cacheCfg: cfg.Cache,
		logger:   logger,
	}
}

// State returns the current lifecycle state.
func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// EnsureReady initializes the backend client on first call and is a no-op
// once Ready. A Failed gateway stays failed for the process lifetime;
// callers get the original initialization error without any network call.
func (g *Gateway) EnsureReady(ctx context.Context) (*Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateReady:
		return g.client, nil
	case StateFailed:
		return nil, g.initErr
	}

	if g.lsCfg.APIKey == "" {
		g.state = StateFailed
		g.initErr = tools.Errorf(tools.KindConfiguration, "LANGSMITH_API_KEY is not configured")
		g.logger.Warn().Msg("gateway initialization failed: no API key configured")
		return nil, g.initErr
	}

	client := NewClient(g.lsCfg, g.cacheCfg, g.logger)
	// The handshake outcome outlives the call that triggered it, so an
	// abandoned first call must not be able to fail the gateway for
	// everyone after it. The client's own timeout still bounds the probe.
	if err := client.Handshake(context.WithoutCancel(ctx)); err != nil {
		g.state = StateFailed
		g.initErr = tools.Errorf(tools.KindConfiguration, "backend handshake failed: %v", err)
		g.logger.Error().Str("endpoint", g.lsCfg.Endpoint).Str("error", err.Error()).Msg("gateway initialization failed")
		return nil, g.initErr
	}

	g.state = StateReady
	g.client = client
	g.logger.Info().Str("endpoint", g.lsCfg.Endpoint).Msg("gateway ready")
	return g.client, nil
}

// Domain operations. Each lazily initializes the gateway, then passes
// through to the backend client. A Failed gateway fails fast without
// touching the network.

func (g *Gateway) ListDatasets(ctx context.Context, f DatasetFilter) ([]Dataset, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListDatasets(ctx, f)
}

func (g *Gateway) ListExamples(ctx context.Context, q ExampleQuery) ([]Example, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListExamples(ctx, q)
}

func (g *Gateway) ReadExample(ctx context.Context, id, asOf string) (*Example, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.ReadExample(ctx, id, asOf)
}

func (g *Gateway) ListPrompts(ctx context.Context, q PromptQuery) ([]Prompt, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListPrompts(ctx, q)
}

func (g *Gateway) GetPrompt(ctx context.Context, owner, name string) (*Prompt, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetPrompt(ctx, owner, name)
}

func (g *Gateway) GetPromptManifest(ctx context.Context, owner, name string) (*PromptManifest, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetPromptManifest(ctx, owner, name)
}

func (g *Gateway) QueryRuns(ctx context.Context, q RunQuery) ([]Run, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.QueryRuns(ctx, q)
}

func (g *Gateway) ReadRun(ctx context.Context, id string) (*Run, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.ReadRun(ctx, id)
}

func (g *Gateway) GetRunStats(ctx context.Context, q StatsQuery) (map[string]any, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetRunStats(ctx, q)
}

func (g *Gateway) GetProject(ctx context.Context, name string) (*Project, error) {
	c, err := g.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetProject(ctx, name)
}
