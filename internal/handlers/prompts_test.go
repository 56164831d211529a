package handlers

import (
	"net/http"
	"testing"

	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

func TestListPrompts_Empty(t *testing.T) {
	reg := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"repos":[],"total":0}`))
	})

	env := dispatch(t, reg, "list_prompts", map[string]any{})
	result := wantSuccess(t, env)
	if result["total_count"] != float64(0) {
		t.Errorf("unexpected total_count: %v", result["total_count"])
	}
	if result["prompts"] == nil {
		t.Error("prompts must be an empty array, not null")
	}
}

func TestListPrompts_PublicFlagForwarded(t *testing.T) {
	reg := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("is_public"); got != "true" {
			t.Errorf("expected is_public=true, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("expected default limit 20, got %q", got)
		}
		w.Write([]byte(`{"repos":[{"repo_handle":"greeting","owner":"acme"}],"total":1}`))
	})

	env := dispatch(t, reg, "list_prompts", map[string]any{"is_public": "true"})
	result := wantSuccess(t, env)
	if result["total_count"] != float64(1) {
		t.Errorf("unexpected total_count: %v", result["total_count"])
	}
}

func TestGetPromptByName(t *testing.T) {
	reg := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/greeting":
			w.Write([]byte(`{"repo":{"repo_handle":"greeting","owner":"acme","description":"a greeting"}}`))
		case "/commits/acme/greeting/latest":
			w.Write([]byte(`{"commit_hash":"abc123","manifest":{"template":"hello {name}"}}`))
		default:
			http.NotFound(w, r)
		}
	})

	env := dispatch(t, reg, "get_prompt_by_name", map[string]any{"prompt_name": "acme/greeting"})
	result := wantSuccess(t, env)
	if result["commit_hash"] != "abc123" {
		t.Errorf("unexpected commit_hash: %v", result["commit_hash"])
	}
	if result["manifest"] == nil {
		t.Error("expected a manifest payload")
	}
}

func TestGetPromptByName_BareNameUsesDefaultOwner(t *testing.T) {
	reg := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/-/greeting":
			w.Write([]byte(`{"repo":{"repo_handle":"greeting"}}`))
		case "/commits/-/greeting/latest":
			w.Write([]byte(`{"commit_hash":"def456","manifest":{}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	env := dispatch(t, reg, "get_prompt_by_name", map[string]any{"prompt_name": "greeting"})
	wantSuccess(t, env)
}

func TestGetPromptByName_Missing(t *testing.T) {
	reg := newTestRegistry(t, nil)
	env := dispatch(t, reg, "get_prompt_by_name", map[string]any{"prompt_name": "acme/nope"})
	wantErrorKind(t, env, tools.KindNotFound)
}
