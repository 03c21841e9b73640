package view

import (
	"fmt"
	"strconv"

	"github.com/mygymhq/adminboard/internal/explorer/document"
)

// ProgressText derives the progress cell for a participation record. The
// fallback chain is fixed: explicit percentage, then done/goal steps, then
// a bare done count, then the missing sentinel.
func ProgressText(rec *document.Record) string {
	if pct, ok := rec.NumberAt("progress"); ok {
		return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
	}

	done, hasDone := rec.NumberAt("stepsDone")
	goal, hasGoal := rec.NumberAt("stepsGoal")
	switch {
	case hasDone && hasGoal:
		return fmt.Sprintf("%s/%s steps", formatSteps(done), formatSteps(goal))
	case hasDone:
		return fmt.Sprintf("%s steps", formatSteps(done))
	default:
		return document.Missing
	}
}

func formatSteps(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
