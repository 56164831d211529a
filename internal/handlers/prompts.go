package handlers

import (
	"context"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// ListPrompts returns the handler for list_prompts. An empty result set is
// a valid success.
func ListPrompts(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		prompts, err := gw.ListPrompts(ctx, client.PromptQuery{
			IsPublic: args.Bool("is_public"),
			Limit:    args.Int("limit"),
		})
		if err != nil {
			return nil, err
		}
		if prompts == nil {
			prompts = []client.Prompt{}
		}
		return map[string]any{
			"prompts":     prompts,
			"total_count": len(prompts),
		}, nil
	}
}

// GetPromptByName returns the handler for get_prompt_by_name: the repo
// record plus the latest commit's template manifest.
func GetPromptByName(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		owner, repo := splitPromptName(args.String("prompt_name"))

		prompt, err := gw.GetPrompt(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		manifest, err := gw.GetPromptManifest(ctx, owner, repo)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"prompt":      prompt,
			"commit_hash": manifest.CommitHash,
			"manifest":    manifest.Manifest,
		}, nil
	}
}
