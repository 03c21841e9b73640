package document

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ActionCounter is a per-action-type usage counter nested inside an
// activity document. Notes are kept in insertion order, oldest first, so
// the latest note is the last element.
type ActionCounter struct {
	Count            int
	LastActivityTime time.Time
	LatestNote       string
}

// ParseActions reads the raw "actions" mapping of an activities document.
// Malformed entries degrade to zero counters instead of being dropped, so
// the action type still shows up in the flattened record.
func ParseActions(v any) map[string]ActionCounter {
	actions := make(map[string]ActionCounter)

	raw, ok := v.(map[string]any)
	if !ok {
		return actions
	}

	for actionType, rawCounter := range raw {
		counter := ActionCounter{}
		if fields, ok := rawCounter.(map[string]any); ok {
			if count, ok := ResolveNumber(fields["count"]); ok && count > 0 {
				counter.Count = int(count)
			}
			counter.LastActivityTime = ResolveDate(fields["lastActivityTime"])
			if notes, ok := fields["notes"].([]any); ok && len(notes) > 0 {
				if note, ok := notes[len(notes)-1].(string); ok {
					counter.LatestNote = note
				}
			}
		}
		actions[actionType] = counter
	}

	return actions
}

// FlattenActions projects the parsed counters into flat record fields the
// projector can reference directly: <type>Count, last<Type>At and
// latest<Type>Note per action type, plus an "activity" one-line summary.
// Action types are walked in sorted order so the output is deterministic.
func FlattenActions(actions map[string]ActionCounter, rec *Record) {
	types := make([]string, 0, len(actions))
	for actionType := range actions {
		types = append(types, actionType)
	}
	sort.Strings(types)

	var summaryParts []string
	for _, actionType := range types {
		counter := actions[actionType]

		rec.Set(lowerFirst(actionType)+"Count", Value{
			Kind:   KindNumber,
			Num:    float64(counter.Count),
			HasNum: true,
		})
		rec.Set("last"+upperFirst(actionType)+"At", Value{
			Kind: KindDate,
			Time: counter.LastActivityTime,
		})
		noteValue := Value{Kind: KindText, Str: Missing}
		if counter.LatestNote != "" {
			noteValue.Str = counter.LatestNote
		}
		rec.Set("latest"+upperFirst(actionType)+"Note", noteValue)

		if counter.Count > 0 {
			summaryParts = append(summaryParts, fmt.Sprintf("%s: %d", actionType, counter.Count))
		}
	}

	summary := "No activity yet"
	if len(summaryParts) > 0 {
		summary = strings.Join(summaryParts, " • ")
	}
	rec.Set("activity", Value{Kind: KindText, Str: summary})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
