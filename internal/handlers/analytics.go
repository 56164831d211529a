package handlers

import (
	"context"
	"sort"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// traceSelect is the field selection for root-run trace lookups, matching
// what the trace view needs.
var traceSelect = []string{
	"inputs", "outputs", "run_type", "id", "error",
	"total_tokens", "total_cost", "feedback_stats", "app_path",
}

// childSelect is the field selection for child-run listings.
var childSelect = []string{
	"id", "name", "run_type", "status", "start_time", "end_time",
	"error", "parent_run_id", "inputs", "outputs", "total_tokens", "total_cost",
}

// ProjectRunsStats returns the handler for get_project_runs_stats.
// Statistics never partially succeed: if any constituent fetch fails or
// the aggregate payload is missing its counters, the whole call reports a
// backend error instead of incomplete analytics.
func ProjectRunsStats(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		project := projectPart(args.String("project_name"))
		if project == "" || project == "null" {
			return nil, tools.Errorf(tools.KindValidation, "parameter \"project_name\" must not be empty")
		}

		var stats map[string]any
		var lastRunID string

		if args.Bool("is_last_run") {
			runs, err := gw.QueryRuns(ctx, client.RunQuery{
				ProjectName: project,
				IsRoot:      true,
				Limit:       1,
				Select:      []string{"id", "trace_id", "start_time"},
			})
			if err != nil {
				return nil, err
			}
			if len(runs) == 0 {
				return nil, tools.Errorf(tools.KindNotFound, "no runs found for project %q", project)
			}
			lastRunID = runs[0].ID
			traceID := runs[0].TraceID
			if traceID == "" {
				traceID = runs[0].ID
			}
			stats, err = gw.GetRunStats(ctx, client.StatsQuery{TraceID: traceID})
			if err != nil {
				return nil, wholeStatsError(err)
			}
		} else {
			var fetched map[string]any
			var projRecord *client.Project

			p := pool.New().WithContext(ctx)
			p.Go(func(ctx context.Context) error {
				record, err := gw.GetProject(ctx, project)
				if err != nil {
					return err
				}
				projRecord = record
				return nil
			})
			p.Go(func(ctx context.Context) error {
				s, err := gw.GetRunStats(ctx, client.StatsQuery{ProjectNames: []string{project}})
				if err != nil {
					return err
				}
				fetched = s
				return nil
			})
			if err := p.Wait(); err != nil {
				return nil, wholeStatsError(err)
			}
			stats = fetched
			if projRecord != nil {
				stats["project_id"] = projRecord.ID
			}
		}

		if _, ok := stats["run_count"]; !ok {
			return nil, tools.Errorf(tools.KindBackend, "backend returned incomplete stats for project %q", project)
		}

		// Not part of the aggregate surface.
		delete(stats, "run_facets")
		stats["project_name"] = project
		if lastRunID != "" {
			stats["last_run_id"] = lastRunID
		}
		return stats, nil
	}
}

// wholeStatsError keeps typed errors intact and converts anything else —
// including combined multi-leg failures — into a backend error so callers
// never see partial analytics dressed up as success.
func wholeStatsError(err error) error {
	if _, ok := tools.AsError(err); ok {
		return err
	}
	return tools.Errorf(tools.KindBackend, "stats aggregation failed: %v", err)
}

// FetchTrace returns the handler for fetch_trace. The trace identifier
// wins when both it and a project name are supplied.
func FetchTrace(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		traceID := optString(args, "trace_id")
		project := optString(args, "project_name")

		if traceID == "" && project == "" {
			return nil, tools.Errorf(tools.KindValidation, "either project_name or trace_id must be provided")
		}

		q := client.RunQuery{IsRoot: true, Limit: 1, Select: traceSelect}
		if traceID != "" {
			q.IDs = []string{traceID}
		} else {
			q.ProjectName = projectPart(project)
		}

		runs, err := gw.QueryRuns(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			if traceID != "" {
				return nil, tools.Errorf(tools.KindNotFound, "trace %q not found", traceID)
			}
			return nil, tools.Errorf(tools.KindNotFound, "no runs found for project %q", project)
		}

		run := runs[0]
		return map[string]any{
			"trace_id":       run.ID,
			"id":             run.ID,
			"run_type":       run.RunType,
			"error":          run.Error,
			"inputs":         run.Inputs,
			"outputs":        run.Outputs,
			"total_tokens":   run.TotalTokens,
			"total_cost":     formatCost(run.TotalCost),
			"feedback_stats": run.FeedbackStats,
			"app_path":       run.AppPath,
			"thread_id":      run.ThreadID(),
		}, nil
	}
}

// FetchRun returns the handler for fetch_run: one run's full detail plus
// its direct children. A child-listing failure degrades to a note instead
// of failing the whole call.
func FetchRun(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		runID := args.String("run_id")
		if runID == "" || runID == "null" {
			return nil, tools.Errorf(tools.KindValidation, "parameter \"run_id\" must not be empty")
		}

		run, err := gw.ReadRun(ctx, runID)
		if err != nil {
			return nil, err
		}

		info := map[string]any{
			"id":                run.ID,
			"name":              run.Name,
			"run_type":          run.RunType,
			"status":            run.Status,
			"start_time":        run.StartTime,
			"end_time":          run.EndTime,
			"inputs":            run.Inputs,
			"outputs":           run.Outputs,
			"error":             run.Error,
			"total_tokens":      run.TotalTokens,
			"prompt_tokens":     run.PromptTokens,
			"completion_tokens": run.CompletionTokens,
			"total_cost":        formatCost(run.TotalCost),
			"prompt_cost":       formatCost(run.PromptCost),
			"completion_cost":   formatCost(run.CompletionCost),
			"tags":              run.Tags,
			"trace_id":          run.TraceID,
			"parent_run_id":     run.ParentRunID,
		}

		childRuns := []map[string]any{}
		if run.TraceID != "" {
			children, err := gw.QueryRuns(ctx, client.RunQuery{
				TraceID: run.TraceID,
				Select:  childSelect,
			})
			if err != nil {
				info["child_runs_error"] = "could not fetch child runs: " + err.Error()
			} else {
				for _, c := range children {
					if c.ParentRunID != runID {
						continue
					}
					childRuns = append(childRuns, map[string]any{
						"id":           c.ID,
						"name":         c.Name,
						"run_type":     c.RunType,
						"status":       c.Status,
						"start_time":   c.StartTime,
						"end_time":     c.EndTime,
						"error":        c.Error,
						"inputs":       c.Inputs,
						"outputs":      c.Outputs,
						"total_tokens": c.TotalTokens,
						"total_cost":   formatCost(c.TotalCost),
					})
				}
				sort.Slice(childRuns, func(i, j int) bool {
					si, _ := childRuns[i]["start_time"].(string)
					sj, _ := childRuns[j]["start_time"].(string)
					return si < sj
				})
			}
		}

		info["child_runs"] = childRuns
		info["child_run_count"] = len(childRuns)
		return info, nil
	}
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
