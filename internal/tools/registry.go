package tools

import (
	"context"
	"fmt"

	"github.com/bobmcallan/langsmith-mcp/internal/common"
)

// Definition describes one callable tool: its unique name, the description
// surfaced in the catalog, and its ordered parameter specs.
type Definition struct {
	Name        string
	Description string
	Params      []ParamSpec
}

// HandlerFunc executes one normalized tool call.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

type registration struct {
	def     Definition
	handler HandlerFunc
}

// Registry is the static tool catalog. It is populated once at startup and
// read-only afterwards, so dispatch needs no locking.
type Registry struct {
	order  []string
	byName map[string]registration
	logger *common.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *common.Logger) *Registry {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Registry{
		byName: make(map[string]registration),
		logger: logger,
	}
}

// Register adds a tool. Names must be unique; a duplicate is a programming
// error surfaced at startup, not at dispatch time.
func (r *Registry) Register(def Definition, handler HandlerFunc) error {
	if def.Name == "" {
		return Errorf(KindInternal, "tool definition has empty name")
	}
	if handler == nil {
		return Errorf(KindInternal, "tool %q registered without a handler", def.Name)
	}
	if _, exists := r.byName[def.Name]; exists {
		return Errorf(KindInternal, "duplicate tool name %q", def.Name)
	}
	r.byName[def.Name] = registration{def: def, handler: handler}
	r.order = append(r.order, def.Name)
	return nil
}

// List returns the tool definitions in registration order.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.byName[name].def)
	}
	return defs
}

// Dispatch resolves a tool by name, normalizes the raw arguments, and runs
// the handler. It always returns an envelope: every error — unknown tool,
// validation failure, handler error, even a panic — is captured here and
// never propagates to the transport.
func (r *Registry) Dispatch(ctx context.Context, name string, raw map[string]any) (env Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("tool", name).Str("panic", fmt.Sprint(rec)).Msg("tool handler panicked")
			env = Failure(Errorf(KindInternal, "tool %q failed unexpectedly", name))
		}
	}()

	reg, ok := r.byName[name]
	if !ok {
		return Failure(Errorf(KindUnknownTool, "unknown tool %q", name))
	}

	args, err := Normalize(reg.def.Params, raw)
	if err != nil {
		return Failure(err)
	}

	result, err := reg.handler(ctx, args)
	if err != nil {
		r.logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool call failed")
		return Failure(err)
	}
	return Success(result)
}
