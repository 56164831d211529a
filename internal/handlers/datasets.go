package handlers

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/langsmith-mcp/internal/client"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// ListDatasets returns the handler for list_datasets. When dataset_ids is
// supplied, dataset_name is ignored: the identifier filter wins over the
// name filter, explicitly rather than combined.
func ListDatasets(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		filter := client.DatasetFilter{
			IDs:          args.StringList("dataset_ids"),
			DataType:     args.String("data_type"),
			Name:         args.String("dataset_name"),
			NameContains: args.String("dataset_name_contains"),
			Limit:        args.Int("limit"),
		}
		if len(filter.IDs) > 0 {
			filter.Name = ""
		}

		if raw := args.String("metadata"); raw != "" {
			meta, err := parseMetadataFilter(raw)
			if err != nil {
				return nil, err
			}
			filter.Metadata = meta
		}
		for _, param := range []string{"created_after", "created_before"} {
			if v := args.String(param); v != "" {
				if err := parseTimestamp(param, v); err != nil {
					return nil, err
				}
			}
		}
		filter.CreatedAfter = args.String("created_after")
		filter.CreatedBefore = args.String("created_before")

		datasets, err := gw.ListDatasets(ctx, filter)
		if err != nil {
			return nil, err
		}
		if datasets == nil {
			datasets = []client.Dataset{}
		}
		return map[string]any{
			"datasets":    datasets,
			"total_count": len(datasets),
		}, nil
	}
}

// parseMetadataFilter decodes the metadata argument: a flat JSON object of
// scalar match criteria. Nested values are rejected rather than silently
// passed through.
func parseMetadataFilter(raw string) (map[string]any, error) {
	var meta map[string]any
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, tools.Errorf(tools.KindValidation, "parameter \"metadata\" must be a JSON object, got %q", raw)
	}
	for key, value := range meta {
		switch value.(type) {
		case string, bool, float64, nil:
		default:
			return nil, tools.Errorf(tools.KindValidation, "parameter \"metadata\" field %q must be a scalar value", key)
		}
	}
	return meta, nil
}

// ListExamples returns the handler for list_examples. dataset_id wins over
// dataset_name when both are supplied; a bare name is resolved through an
// exact-name dataset lookup first.
func ListExamples(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		datasetID := args.String("dataset_id")
		datasetName := args.String("dataset_name")

		if datasetID == "" && datasetName == "" {
			return nil, tools.Errorf(tools.KindValidation, "either dataset_id or dataset_name must be provided")
		}
		if datasetID == "" {
			datasets, err := gw.ListDatasets(ctx, client.DatasetFilter{Name: datasetName, Limit: 1})
			if err != nil {
				return nil, err
			}
			if len(datasets) == 0 {
				return nil, tools.Errorf(tools.KindNotFound, "dataset %q not found", datasetName)
			}
			datasetID = datasets[0].ID
		}

		examples, err := gw.ListExamples(ctx, client.ExampleQuery{
			DatasetID: datasetID,
			Limit:     args.Int("limit"),
			Offset:    args.Int("offset"),
			AsOf:      args.String("as_of"),
		})
		if err != nil {
			return nil, err
		}
		if examples == nil {
			examples = []client.Example{}
		}
		return map[string]any{
			"examples":    examples,
			"dataset_id":  datasetID,
			"total_count": len(examples),
		}, nil
	}
}

// ReadExample returns the handler for read_example.
func ReadExample(gw *client.Gateway) tools.HandlerFunc {
	return func(ctx context.Context, args tools.Args) (any, error) {
		example, err := gw.ReadExample(ctx, args.String("example_id"), args.String("as_of"))
		if err != nil {
			return nil, err
		}
		return example, nil
	}
}
