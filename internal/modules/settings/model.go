package settings

import "encoding/json"

// Document is the display-settings payload for one scope, kept as an
// open JSON object so clients can add keys without a schema change.
type Document map[string]json.RawMessage

// DefaultScope is the single scope the offline generation uses. The
// hosted generation scopes settings per account id.
const DefaultScope = "default"

func raw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// Defaults mirrors the client's initial display state.
func Defaults() Document {
	return Document{
		"theme":            raw("dark"),
		"lastCatalog":      raw("services"),
		"lastServiceType":  raw("Normal"),
		"dashboardFilters": raw(map[string]string{"range": "month", "type": "all"}),
		"blurIntensity":    raw(12),
		"cardOpacity":      raw(0.85),
		"modalOpacity":     raw(0.95),
	}
}

// Merge lays the incoming keys over the current document. Keys absent
// from the patch keep their stored value; a JSON null removes the key.
func Merge(current, patch Document) Document {
	merged := make(Document, len(current)+len(patch))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range patch {
		if string(v) == "null" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return merged
}
