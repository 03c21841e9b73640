package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxDisplayRunes caps free-form blob previews and cell text.
const maxDisplayRunes = 80

// SummarizeValue produces a short human display string for a free-form
// field: arrays render as an item count, objects as a truncated JSON
// preview (or a recognized sub-summary), long strings get truncated.
func SummarizeValue(v any) string {
	switch blob := v.(type) {
	case nil:
		return Missing
	case string:
		trimmed := strings.TrimSpace(blob)
		if trimmed == "" {
			return Missing
		}
		// some fields carry JSON serialized as a string; show its summary
		// rather than the raw encoding
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				return SummarizeValue(decoded)
			}
		}
		return Truncate(trimmed)
	case []any:
		return fmt.Sprintf("%d item(s)", len(blob))
	case map[string]any:
		// wrapped encodings summarize to their payload
		if _, ok := blob[wrapperOID]; ok {
			return ResolveID(blob)
		}
		if _, ok := blob[wrapperDate]; ok {
			return FormatDateTime(ResolveDate(blob))
		}
		// well-known sub-shape: named sub-documents show their name
		if name, ok := blob["name"].(string); ok && name != "" {
			return Truncate(name)
		}
		preview, err := json.Marshal(blob)
		if err != nil {
			return Missing
		}
		return Truncate(string(preview))
	default:
		return Truncate(fmt.Sprintf("%v", blob))
	}
}

// Truncate caps s at the display width, marking the cut with an ellipsis.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDisplayRunes {
		return s
	}
	return string(runes[:maxDisplayRunes-3]) + "…"
}
