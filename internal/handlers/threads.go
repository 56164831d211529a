package handlers

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// Message is one conversation message in a thread history, in ascending
// timestamp order.
type Message struct {
	Role      string `json:"role"`
	Content   any    `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// threadFilter matches runs whose metadata carries the thread identifier
// under any of the conventional keys.
func threadFilter(threadID string) string {
	return fmt.Sprintf(
		`and(in(metadata_key, ["session_id","conversation_id","thread_id"]), eq(metadata_value, %q))`,
		threadID,
	)
}

// ThreadHistory returns the handler for get_thread_history: the full
// message history of one conversation thread, oldest first. An empty
// thread is a valid, empty result — not an error.
func ThreadHistory(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		threadID := args.String("thread_id")
		project := projectPart(args.String("project_name"))

		runs, err := gw.QueryRuns(ctx, client.RunQuery{
			ProjectName: project,
			Filter:      threadFilter(threadID),
			RunType:     "llm",
		})
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return []Message{}, nil
		}

		// The newest LLM run holds the accumulated conversation.
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].StartTime > runs[j].StartTime
		})
		latest := runs[0]

		messages := extractMessages(&latest)
		sort.SliceStable(messages, func(i, j int) bool {
			return messages[i].Timestamp < messages[j].Timestamp
		})
		return messages, nil
	}
}

// extractMessages pulls the conversation out of a run: the input messages
// plus the model's output message. Messages without their own timestamp
// inherit the run's start (inputs) or end (output) time.
func extractMessages(run *client.Run) []Message {
	messages := []Message{}

	if raw, ok := run.Inputs["messages"].([]any); ok {
		for _, item := range raw {
			if m := toMessage(item, run.StartTime); m != nil {
				messages = append(messages, *m)
			}
		}
	}

	if out := outputMessage(run.Outputs); out != nil {
		if m := toMessage(out, run.EndTime); m != nil {
			messages = append(messages, *m)
		}
	}

	return messages
}

// outputMessage finds the model response in a run's outputs, accepting
// both the chat-completion shape (choices[0].message) and the bare
// message shape.
func outputMessage(outputs map[string]any) any {
	if outputs == nil {
		return nil
	}
	if choices, ok := outputs["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if msg, ok := choice["message"]; ok {
				return msg
			}
		}
	}
	if msg, ok := outputs["message"]; ok {
		return msg
	}
	return nil
}

func toMessage(item any, fallbackTime string) *Message {
	m, ok := item.(map[string]any)
	if !ok {
		return nil
	}
	role, _ := m["role"].(string)
	ts, _ := m["timestamp"].(string)
	if ts == "" {
		ts = fallbackTime
	}
	return &Message{
		Role:      role,
		Content:   m["content"],
		Timestamp: ts,
	}
}
