package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/config"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

func TestRegisterAll_Catalog(t *testing.T) {
	reg := newTestRegistry(t, nil)

	want := []string{
		"get_version",
		"get_thread_history",
		"list_prompts",
		"get_prompt_by_name",
		"list_datasets",
		"list_examples",
		"read_example",
		"get_project_runs_stats",
		"fetch_trace",
		"fetch_run",
	}
	var got []string
	for _, def := range reg.List() {
		got = append(got, def.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("catalog mismatch:\n got  %v\n want %v", got, want)
	}
}

// Without a credential every backend tool must fail with a configuration
// error before any network traffic happens.
func TestAllBackendTools_NoCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend contacted without a credential: %s %s", r.Method, r.URL.Path)
		http.Error(w, "no", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.LangSmith.Endpoint = srv.URL
	cfg.LangSmith.APIKey = ""

	gw := client.NewGateway(cfg, common.NewSilentLogger())
	reg := tools.NewRegistry(common.NewSilentLogger())
	if err := RegisterAll(reg, gw); err != nil {
		t.Fatalf("failed to register tools: %v", err)
	}

	calls := map[string]map[string]any{
		"get_thread_history":     {"thread_id": "t-1", "project_name": "p"},
		"list_prompts":           {},
		"get_prompt_by_name":     {"prompt_name": "acme/x"},
		"list_datasets":          {},
		"list_examples":          {"dataset_id": "d-1"},
		"read_example":           {"example_id": "e-1"},
		"get_project_runs_stats": {"project_name": "p"},
		"fetch_trace":            {"trace_id": "tr-1"},
		"fetch_run":              {"run_id": "r-1"},
	}
	for tool, args := range calls {
		env := dispatch(t, reg, tool, args)
		if !env.IsError() || env.Error.Kind != tools.KindConfiguration {
			t.Errorf("%s: expected configuration_error, got %+v", tool, env)
		}
	}
}

func TestGetVersion_WorksWithoutCredential(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.LangSmith.APIKey = ""

	gw := client.NewGateway(cfg, common.NewSilentLogger())
	reg := tools.NewRegistry(common.NewSilentLogger())
	if err := RegisterAll(reg, gw); err != nil {
		t.Fatalf("failed to register tools: %v", err)
	}

	env := dispatch(t, reg, "get_version", map[string]any{})
	result := wantSuccess(t, env)
	if result["version"] == "" {
		t.Error("expected a version string")
	}
	// Reporting version must not force the backend connection.
	if result["gateway_state"] != "uninitialized" {
		t.Errorf("unexpected gateway_state: %v", result["gateway_state"])
	}
}
