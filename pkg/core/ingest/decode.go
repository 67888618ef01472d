package ingest

import (
	"fmt"

	"finbro/pkg/core/utils"
	"finbro/pkg/models"
)

// DecodeMetricsPayload turns a provider response body into raw records.
// The documented envelope is {"ticker": ..., "metrics": [...]}; a bare
// top-level array is accepted too. Defective payloads go through the
// repair chain before the decode gives up.
func DecodeMetricsPayload(body string) ([]models.Raw, error) {
	v, err := utils.SmartParse(body)
	if err != nil {
		return nil, err
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		arr, ok := t["metrics"]
		if !ok {
			arr, ok = t["data"]
		}
		if !ok {
			return nil, fmt.Errorf("response carries no metrics array")
		}
		items, ok = arr.([]any)
		if !ok {
			return nil, fmt.Errorf("metrics is not an array")
		}
	default:
		return nil, fmt.Errorf("unexpected payload shape %T", v)
	}

	raws := make([]models.Raw, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d is not an object", i)
		}
		raws = append(raws, models.Raw(obj))
	}
	return raws, nil
}
