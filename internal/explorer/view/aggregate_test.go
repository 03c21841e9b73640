package view_test

import (
	"testing"

	"github.com/mygymhq/adminboard/internal/explorer/document"
	"github.com/mygymhq/adminboard/internal/explorer/view"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_EmptyPage(t *testing.T) {
	specs := []view.StatSpec{
		{Name: "totalLogins", Kind: view.StatSum, Field: "loginCount"},
		{Name: "uniqueUsers", Kind: view.StatDistinct, Field: "userId"},
		{Name: "status", Kind: view.StatBucketCounts, Field: "statusLabel", Buckets: []string{"Completed", "Pending"}},
	}

	stats := view.Aggregate(nil, specs)

	assert.Equal(t, view.SummaryStats{
		"totalLogins":      0,
		"uniqueUsers":      0,
		"status:Completed": 0,
		"status:Pending":   0,
	}, stats)
}

func TestAggregate_SinglePass(t *testing.T) {
	mk := func(userID string, logins float64, status string) *document.Record {
		rec := document.NewRecord()
		rec.Set("userId", document.Value{Kind: document.KindID, Str: userID})
		rec.Set("loginCount", document.Value{Kind: document.KindNumber, Num: logins, HasNum: true})
		rec.Set("statusLabel", document.Value{Kind: document.KindText, Str: status})
		return rec
	}

	records := []*document.Record{
		mk("u1", 3, "Completed"),
		mk("u2", 2, "Pending"),
		mk("u1", 5, "Completed"),
		mk("u3", 0, "Elsewhere"), // unknown bucket is ignored
	}
	specs := []view.StatSpec{
		{Name: "totalLogins", Kind: view.StatSum, Field: "loginCount"},
		{Name: "uniqueUsers", Kind: view.StatDistinct, Field: "userId"},
		{Name: "status", Kind: view.StatBucketCounts, Field: "statusLabel", Buckets: []string{"Completed", "Pending"}},
	}

	stats := view.Aggregate(records, specs)

	assert.Equal(t, float64(10), stats["totalLogins"])
	assert.Equal(t, float64(3), stats["uniqueUsers"])
	assert.Equal(t, float64(2), stats["status:Completed"])
	assert.Equal(t, float64(1), stats["status:Pending"])
	_, hasUnknownBucket := stats["status:Elsewhere"]
	assert.False(t, hasUnknownBucket)
}

func TestAggregate_DistinctSkipsSentinels(t *testing.T) {
	mk := func(userID string) *document.Record {
		rec := document.NewRecord()
		rec.Set("userId", document.Value{Kind: document.KindID, Str: userID})
		return rec
	}

	records := []*document.Record{mk("u1"), mk(""), mk("-"), mk("u1")}
	stats := view.Aggregate(records, []view.StatSpec{
		{Name: "uniqueUsers", Kind: view.StatDistinct, Field: "userId"},
	})

	assert.Equal(t, float64(1), stats["uniqueUsers"])
}
