package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Extended-JSON wrapper keys used by the store during transport.
const (
	wrapperOID        = "$oid"
	wrapperDate       = "$date"
	wrapperNumberLong = "$numberLong"
	wrapperNumberInt  = "$numberInt"
	wrapperNumberDbl  = "$numberDouble"
)

// ResolveID resolves an identifier that may be a plain string, a wrapped
// object ({$oid: "..."}), or a nested document carrying its own _id field.
// Unresolvable input yields the empty string; ResolveID never panics.
func ResolveID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case map[string]any:
		if oid, ok := id[wrapperOID].(string); ok {
			return oid
		}
		if nested, ok := id["_id"]; ok {
			return ResolveID(nested)
		}
		return ""
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

// dateLayouts tried, in order, for free-form date strings.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ResolveDate resolves a date that may be an ISO string, a native time, an
// epoch-millisecond number, a {$date: ...} wrapper or a {$numberLong: "..."}
// wrapper (large epoch serialized as string to avoid precision loss).
// Attempt order: wrapped-long, numeric epoch, wrapped-date, string parse.
// Anything unparseable yields the zero time, the missing-date sentinel.
func ResolveDate(v any) time.Time {
	switch d := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return d
	case map[string]any:
		if longStr, ok := d[wrapperNumberLong].(string); ok {
			if millis, err := strconv.ParseInt(longStr, 10, 64); err == nil {
				return time.UnixMilli(millis).UTC()
			}
			return time.Time{}
		}
		if wrapped, ok := d[wrapperDate]; ok {
			return ResolveDate(wrapped)
		}
		return time.Time{}
	case float64:
		return time.UnixMilli(int64(d)).UTC()
	case int64:
		return time.UnixMilli(d).UTC()
	case int:
		return time.UnixMilli(int64(d)).UTC()
	case json.Number:
		if millis, err := d.Int64(); err == nil {
			return time.UnixMilli(millis).UTC()
		}
		return time.Time{}
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

// ResolveNumber resolves plain numbers, numeric strings and the numeric
// extended-JSON wrappers. The second return value is false for anything
// that is not a number.
func ResolveNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return 0, false
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]any:
		for _, key := range []string{wrapperNumberInt, wrapperNumberLong, wrapperNumberDbl} {
			if wrapped, ok := n[key]; ok {
				return ResolveNumber(wrapped)
			}
		}
		return 0, false
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// FormatDate renders a resolved date for display. The zero time renders as
// the missing sentinel, never as a leaked internal representation.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.Format("02 Jan 2006")
}

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.Format("02 Jan 2006, 15:04")
}
