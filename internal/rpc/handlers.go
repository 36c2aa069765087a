package rpc

import (
	"context"
	"encoding/json"

	"datachat/internal/analytics"
	"datachat/internal/dhis"
)

func (s *Server) callTool(params json.RawMessage) (any, any) {
	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]any{"code": -32602, "message": "Invalid params"}
	}

	var data any
	var err error

	switch call.Name {
	case "analyze_data":
		data, err = s.handleAnalyzeData(call.Arguments)
	case "list_period_tokens":
		data = analytics.PeriodTokens()
	default:
		return nil, map[string]any{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		return nil, map[string]any{"code": -32000, "message": err.Error()}
	}

	return map[string]any{
		"content": []any{
			map[string]any{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

func (s *Server) handleAnalyzeData(args map[string]any) (any, error) {
	items, _ := args["items"].([]any)
	period, _ := args["period"].(string)
	orgUnit, _ := args["org_unit"].(string)
	includeChildren, _ := args["include_children"].(bool)

	req := analytics.Request{
		Items:   items,
		Period:  analytics.PeriodToken(period),
		OrgUnit: orgUnitSelection(orgUnit, includeChildren),
	}

	return s.pipeline.Run(context.Background(), req)
}

func orgUnitSelection(orgUnit string, includeChildren bool) analytics.OrgUnitSelection {
	switch orgUnit {
	case analytics.TokenUserOrgUnit, analytics.TokenUserOrgUnitChildren, analytics.TokenUserOrgUnitGrandchildren:
		return analytics.OrgUnitSelection{Token: orgUnit, IncludeChildren: includeChildren}
	default:
		return analytics.OrgUnitSelection{
			Unit:            &dhis.OrgUnit{ID: orgUnit},
			IncludeChildren: includeChildren,
		}
	}
}
