package document_test

import (
	"testing"
	"time"

	"github.com/mygymhq/adminboard/internal/explorer/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var activitySchema = document.Schema{
	Collection: "activities",
	Fields: []document.FieldSpec{
		{Name: "userId", Sources: []string{"userId", "user", "created_for"}, Kind: document.KindID},
		{Name: "actions", Sources: []string{"actions"}, Kind: document.KindActions},
		{Name: "lastUpdated", Sources: []string{"lastUpdated"}, Kind: document.KindDate},
	},
}

// the full normalization scenario: nested counters flattened, epoch
// millis date resolved, latest note picked
func TestNormalize_ActivityDocument(t *testing.T) {
	raw := document.Raw{
		"_id":    "a1",
		"userId": "u1",
		"actions": map[string]any{
			"Login": map[string]any{
				"count":            float64(3),
				"lastActivityTime": "2024-01-01T00:00:00Z",
				"notes":            []any{"ok", "great"},
			},
		},
		"lastUpdated": float64(1704067200000),
	}

	rec := document.Normalize(raw, activitySchema)

	assert.Equal(t, "u1", rec.StringAt("userId"))

	logins, ok := rec.NumberAt("loginCount")
	require.True(t, ok)
	assert.Equal(t, float64(3), logins)

	instant := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, rec.TimeAt("lastLoginAt").Equal(instant))
	assert.Equal(t, "great", rec.StringAt("latestLoginNote"))

	// the epoch-encoded lastUpdated resolves to the very same instant
	assert.True(t, rec.TimeAt("lastUpdated").Equal(instant))
}

func TestNormalize_SourceFallbackOrder(t *testing.T) {
	rec := document.Normalize(document.Raw{
		"user":        map[string]any{"$oid": "u-wrapped"},
		"created_for": "u-fallback",
	}, activitySchema)

	// "userId" absent, "user" wins over "created_for"
	assert.Equal(t, "u-wrapped", rec.StringAt("userId"))
}

func TestNormalize_EmptyStringSkippedAsSource(t *testing.T) {
	rec := document.Normalize(document.Raw{
		"userId": "",
		"user":   "u2",
	}, activitySchema)
	assert.Equal(t, "u2", rec.StringAt("userId"))
}

func TestNormalize_TotalOnGarbage(t *testing.T) {
	rec := document.Normalize(document.Raw{
		"userId":      []any{"weird"},
		"actions":     "not a map",
		"lastUpdated": map[string]any{"$numberLong": "zzz"},
	}, activitySchema)

	// every schema field exists, holding its sentinel
	assert.True(t, rec.Has("userId"))
	assert.True(t, rec.Has("lastUpdated"))
	assert.True(t, rec.TimeAt("lastUpdated").IsZero())
	assert.Equal(t, "No activity yet", rec.StringAt("activity"))
}

func TestNormalize_CountKind(t *testing.T) {
	schema := document.Schema{
		Collection: "conversations",
		Fields: []document.FieldSpec{
			{Name: "participantsCount", Sources: []string{"participants"}, Kind: document.KindCount},
		},
	}

	rec := document.Normalize(document.Raw{
		"participants": []any{"a", "b", "c"},
	}, schema)
	count, ok := rec.NumberAt("participantsCount")
	require.True(t, ok)
	assert.Equal(t, float64(3), count)

	rec = document.Normalize(document.Raw{}, schema)
	_, ok = rec.NumberAt("participantsCount")
	assert.False(t, ok)
}

func TestRecord_Empty(t *testing.T) {
	schema := document.Schema{
		Collection: "exercises",
		Fields: []document.FieldSpec{
			{Name: "name", Sources: []string{"name"}, Kind: document.KindText},
			{Name: "createdAt", Sources: []string{"created_at"}, Kind: document.KindDate},
		},
	}

	empty := document.Normalize(document.Raw{"unrelated": "x"}, schema)
	assert.True(t, empty.Empty())

	named := document.Normalize(document.Raw{"name": "Push-up"}, schema)
	assert.False(t, named.Empty())
}
