package analytics

import (
	"fmt"
)

// NormalizeItems resolves the heterogeneous "selected items" input shapes
// produced by different upstream selection widgets into a flat list of bare
// identifier strings. Accepted element shapes, in detection order: plain
// string, object with "id", object with "value" (transfer-list convention),
// then a last-resort scan over "id", "value" and "dataElementId".
//
// Normalizing an already-normalized string list is a no-op. An empty input
// or an element with no extractable identifier is a fatal selection error.
func NormalizeItems(input []any) ([]string, error) {
	if len(input) == 0 {
		return nil, &InvalidSelectionError{Dimension: "dx", Detail: "no data items selected"}
	}

	ids := make([]string, 0, len(input))
	for i, el := range input {
		id, ok := extractID(el)
		if !ok || id == "" {
			return nil, &InvalidSelectionError{
				Dimension: "dx",
				Detail:    fmt.Sprintf("element %d has no recognizable identifier (%T)", i, el),
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func extractID(el any) (string, bool) {
	switch v := el.(type) {
	case string:
		return v, true
	case map[string]any:
		for _, key := range []string{"id", "value", "dataElementId"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s, true
			}
		}
		return "", false
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// ItemNames harvests any display names carried by the selection elements,
// keyed by the extracted identifier. The normalizer uses this as a fallback
// when the response dictionary lacks an entry. Elements without names are
// simply skipped.
func ItemNames(input []any) map[string]string {
	names := make(map[string]string)
	for _, el := range input {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		id, ok := extractID(el)
		if !ok || id == "" {
			continue
		}
		for _, key := range []string{"displayName", "name", "label"} {
			if s, ok := obj[key].(string); ok && s != "" {
				names[id] = s
				break
			}
		}
	}
	return names
}
