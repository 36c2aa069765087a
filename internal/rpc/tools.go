package rpc

func (s *Server) listTools() any {
	return map[string]any{
		"tools": []any{
			map[string]any{
				"name": "analyze_data",
				"description": "Run one aggregate analysis for selected data items, a relative period and an organisation unit. " +
					"Returns the normalized records, summary statistics, a chart-ready series set, a sortable table and a plain-text data excerpt.",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"items": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Data item identifiers (data elements, indicators or program indicators)",
						},
						"period": map[string]any{
							"type":        "string",
							"description": "Relative period token, e.g. THIS_MONTH or LAST_12_MONTHS",
						},
						"org_unit": map[string]any{
							"type":        "string",
							"description": "Organisation unit id, or USER_ORGUNIT / USER_ORGUNIT_CHILDREN / USER_ORGUNIT_GRANDCHILDREN",
						},
						"include_children": map[string]any{
							"type":        "boolean",
							"description": "Break the result down by the unit's direct children (comparative mode); with USER_ORGUNIT this expands the children of your assigned unit",
						},
					},
					"required": []string{"items", "period", "org_unit"},
				},
			},
			map[string]any{
				"name":        "list_period_tokens",
				"description": "List the relative period tokens understood by analyze_data.",
				"inputSchema": map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		},
	}
}
