package handlers

import (
	"context"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// defaultPageSize is the listing page size when the caller omits limit.
const defaultPageSize = 20

// maxPageSize is the listing page ceiling; larger requests are clamped.
const maxPageSize = 100

// Version returns the handler for get_version. It reports the gateway
// lifecycle state without forcing initialization, so it works as a
// connectivity check even before any credential is configured.
func Version(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		return map[string]any{
			"version":       common.GetVersion(),
			"build":         common.GetBuild(),
			"commit":        common.GetGitCommit(),
			"gateway_state": gw.State().String(),
		}, nil
	}
}

// RegisterAll registers the full tool catalog on the registry, in the
// order it is discovered by callers. Called once at startup.
func RegisterAll(reg *tools.Registry, gw *client.Gateway) error {
	catalog := []struct {
		def     tools.Definition
		handler tools.HandlerFunc
	}{
		{
			def: tools.Definition{
				Name:        "get_version",
				Description: "Get the LangSmith MCP gateway version and connection state. Use this to verify connectivity.",
			},
			handler: Version(gw),
		},
		{
			def: tools.Definition{
				Name:        "get_thread_history",
				Description: "Get the full message history for a conversation thread, oldest message first.",
				Params: []tools.ParamSpec{
					{Name: "thread_id", Type: tools.TypeString, Required: true,
						Description: "The ID of the thread to fetch history for"},
					{Name: "project_name", Type: tools.TypeString, Required: true,
						Description: "The project containing the thread, as a bare name or 'owner/project'"},
				},
			},
			handler: ThreadHistory(gw),
		},
		{
			def: tools.Definition{
				Name:        "list_prompts",
				Description: "List prompts from the LangSmith hub with optional visibility filtering.",
				Params: []tools.ParamSpec{
					{Name: "is_public", Type: tools.TypeBoolean, Default: false,
						Description: "Filter to public prompts when true, private when false (default false)"},
					{Name: "limit", Type: tools.TypeInteger, Default: defaultPageSize, Min: 1, Max: maxPageSize,
						Description: "Maximum number of prompts to return (default 20, max 100)"},
				},
			},
			handler: ListPrompts(gw),
		},
		{
			def: tools.Definition{
				Name:        "get_prompt_by_name",
				Description: "Get a prompt's full template — messages, variables, and version metadata — by name.",
				Params: []tools.ParamSpec{
					{Name: "prompt_name", Type: tools.TypeString, Required: true,
						Description: "The prompt name, as a bare name or 'owner/name'"},
				},
			},
			handler: GetPromptByName(gw),
		},
		{
			def: tools.Definition{
				Name:        "list_datasets",
				Description: "Fetch datasets with optional filtering by id, data type, name, metadata, or creation date.",
				Params: []tools.ParamSpec{
					{Name: "dataset_ids", Type: tools.TypeStringList,
						Description: "Dataset IDs to filter by; when set, dataset_name is ignored"},
					{Name: "data_type", Type: tools.TypeString,
						Description: "Filter by dataset data type (e.g. 'chat', 'kv')"},
					{Name: "dataset_name", Type: tools.TypeString,
						Description: "Filter by exact dataset name"},
					{Name: "dataset_name_contains", Type: tools.TypeString,
						Description: "Filter by substring in dataset name"},
					{Name: "metadata", Type: tools.TypeString,
						Description: "Filter by metadata: a JSON object of scalar match criteria"},
					{Name: "created_after", Type: tools.TypeString,
						Description: "Only datasets created after this RFC 3339 timestamp"},
					{Name: "created_before", Type: tools.TypeString,
						Description: "Only datasets created before this RFC 3339 timestamp"},
					{Name: "limit", Type: tools.TypeInteger, Default: defaultPageSize, Min: 1, Max: maxPageSize,
						Description: "Maximum number of datasets to return (default 20, max 100)"},
				},
			},
			handler: ListDatasets(gw),
		},
		{
			def: tools.Definition{
				Name:        "list_examples",
				Description: "Fetch examples from a dataset, optionally pinned to a historical version.",
				Params: []tools.ParamSpec{
					{Name: "dataset_id", Type: tools.TypeString,
						Description: "Dataset ID to fetch examples from; takes precedence over dataset_name"},
					{Name: "dataset_name", Type: tools.TypeString,
						Description: "Dataset name to fetch examples from"},
					{Name: "limit", Type: tools.TypeInteger, Default: defaultPageSize, Min: 1, Max: maxPageSize,
						Description: "Maximum number of examples to return (default 20, max 100)"},
					{Name: "offset", Type: tools.TypeInteger, Default: 0, Min: 0,
						Description: "Number of examples to skip before returning results"},
					{Name: "as_of", Type: tools.TypeString,
						Description: "Dataset version tag or RFC 3339 timestamp to pin the listing to"},
				},
			},
			handler: ListExamples(gw),
		},
		{
			def: tools.Definition{
				Name:        "read_example",
				Description: "Fetch a single dataset example by its ID.",
				Params: []tools.ParamSpec{
					{Name: "example_id", Type: tools.TypeString, Required: true,
						Description: "The ID of the example to fetch"},
					{Name: "as_of", Type: tools.TypeString,
						Description: "Dataset version tag or RFC 3339 timestamp to read the example as of"},
				},
			},
			handler: ReadExample(gw),
		},
		{
			def: tools.Definition{
				Name:        "get_project_runs_stats",
				Description: "Get aggregate run statistics for a project, over all runs or just the most recent one.",
				Params: []tools.ParamSpec{
					{Name: "project_name", Type: tools.TypeString, Required: true,
						Description: "The project to aggregate, as a bare name or 'owner/project'"},
					{Name: "is_last_run", Type: tools.TypeBoolean, Default: false,
						Description: "Restrict the stats to the most recent run (default false: all runs)"},
				},
			},
			handler: ProjectRunsStats(gw),
		},
		{
			def: tools.Definition{
				Name:        "fetch_trace",
				Description: "Fetch the content of a trace by trace ID, or the most recent trace of a project. trace_id wins when both are given.",
				Params: []tools.ParamSpec{
					{Name: "project_name", Type: tools.TypeString,
						Description: "The project to fetch the most recent trace for"},
					{Name: "trace_id", Type: tools.TypeString,
						Description: "The ID of the trace to fetch (preferred when both are given)"},
				},
			},
			handler: FetchTrace(gw),
		},
		{
			def: tools.Definition{
				Name:        "fetch_run",
				Description: "Fetch detailed information about one run, including its direct child runs.",
				Params: []tools.ParamSpec{
					{Name: "run_id", Type: tools.TypeString, Required: true,
						Description: "The ID of the run to fetch"},
				},
			},
			handler: FetchRun(gw),
		},
	}

	for _, entry := range catalog {
		if err := reg.Register(entry.def, entry.handler); err != nil {
			return err
		}
	}
	return nil
}
