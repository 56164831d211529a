package client

// Dataset is one LangSmith dataset record, trimmed to the fields the
// gateway surfaces.
type Dataset struct {
	ID                      string         `json:"id"`
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	DataType                string         `json:"data_type"`
	InputsSchemaDefinition  map[string]any `json:"inputs_schema_definition,omitempty"`
	OutputsSchemaDefinition map[string]any `json:"outputs_schema_definition,omitempty"`
	ExampleCount            int            `json:"example_count"`
	SessionCount            int            `json:"session_count"`
	CreatedAt               string         `json:"created_at"`
	ModifiedAt              string         `json:"modified_at"`
	LastSessionStartTime    string         `json:"last_session_start_time,omitempty"`
}

// Example is one dataset example.
type Example struct {
	ID         string         `json:"id"`
	DatasetID  string         `json:"dataset_id"`
	Inputs     map[string]any `json:"inputs"`
	Outputs    map[string]any `json:"outputs"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  string         `json:"created_at"`
	ModifiedAt string         `json:"modified_at"`
}

// Prompt is one prompt repo entry from the LangSmith hub.
type Prompt struct {
	RepoHandle     string   `json:"repo_handle"`
	FullName       string   `json:"full_name"`
	Owner          string   `json:"owner"`
	Description    string   `json:"description"`
	IsPublic       bool     `json:"is_public"`
	NumCommits     int      `json:"num_commits"`
	Tags           []string `json:"tags,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	LastCommitHash string   `json:"last_commit_hash,omitempty"`
}

// PromptManifest is the latest commit of a prompt repo: the template
// messages, declared variables, and versioning metadata.
type PromptManifest struct {
	CommitHash string         `json:"commit_hash"`
	Manifest   map[string]any `json:"manifest"`
}

// Run is one LangSmith run, trimmed to the fields the trace and thread
// tools surface.
type Run struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	RunType          string         `json:"run_type"`
	Status           string         `json:"status"`
	StartTime        string         `json:"start_time"`
	EndTime          string         `json:"end_time"`
	Error            string         `json:"error,omitempty"`
	Inputs           map[string]any `json:"inputs,omitempty"`
	Outputs          map[string]any `json:"outputs,omitempty"`
	TotalTokens      int            `json:"total_tokens"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	TotalCost        float64        `json:"total_cost"`
	PromptCost       float64        `json:"prompt_cost"`
	CompletionCost   float64        `json:"completion_cost"`
	FeedbackStats    map[string]any `json:"feedback_stats,omitempty"`
	AppPath          string         `json:"app_path,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	TraceID          string         `json:"trace_id,omitempty"`
	ParentRunID      string         `json:"parent_run_id,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
}

// ThreadID digs the conversational thread identifier out of the run's
// metadata, checking the same keys the thread filter matches on.
func (r *Run) ThreadID() string {
	meta, _ := r.Extra["metadata"].(map[string]any)
	for _, key := range []string{"thread_id", "session_id", "conversation_id"} {
		if v, ok := meta[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Project is one tracing project (a "session" in the backend API).
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	RunCount  int    `json:"run_count"`
}

// DatasetFilter constrains a dataset listing. Zero values mean "no
// constraint" for that field.
type DatasetFilter struct {
	IDs           []string
	DataType      string
	Name          string
	NameContains  string
	Metadata      map[string]any
	CreatedAfter  string
	CreatedBefore string
	Limit         int
}

// ExampleQuery bounds an example listing. AsOf optionally pins the listing
// to a historical dataset version (tag or timestamp).
type ExampleQuery struct {
	DatasetID string
	Limit     int
	Offset    int
	AsOf      string
}

// PromptQuery bounds a prompt listing.
type PromptQuery struct {
	IsPublic bool
	Limit    int
}

// RunQuery selects runs. ID, TraceID, Filter, and ProjectName are
// independent constraints the backend intersects.
type RunQuery struct {
	ProjectName string
	IDs         []string
	TraceID     string
	Filter      string
	RunType     string
	IsRoot      bool
	Select      []string
	Limit       int
}

// StatsQuery selects the run population to aggregate over.
type StatsQuery struct {
	ProjectNames []string
	TraceID      string
}
