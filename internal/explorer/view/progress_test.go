package view_test

import (
	"testing"

	"github.com/mygymhq/adminboard/internal/explorer/document"
	"github.com/mygymhq/adminboard/internal/explorer/view"

	"github.com/stretchr/testify/assert"
)

func progressRecord(fields map[string]float64) *document.Record {
	rec := document.NewRecord()
	for name, n := range fields {
		rec.Set(name, document.Value{Kind: document.KindNumber, Num: n, HasNum: true})
	}
	return rec
}

func TestProgressText(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]float64
		expected string
	}{
		{"explicit percentage", map[string]float64{"progress": 75}, "75%"},
		{"fractional percentage", map[string]float64{"progress": 33.5}, "33.5%"},
		{"percentage wins over steps", map[string]float64{"progress": 50, "stepsDone": 3, "stepsGoal": 10}, "50%"},
		{"done and goal", map[string]float64{"stepsDone": 3, "stepsGoal": 10}, "3/10 steps"},
		{"done only", map[string]float64{"stepsDone": 7}, "7 steps"},
		{"goal alone is not progress", map[string]float64{"stepsGoal": 10}, "-"},
		{"nothing", nil, "-"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, view.ProgressText(progressRecord(tc.fields)))
		})
	}
}
