package view

import (
	"strings"

	"github.com/mygymhq/adminboard/internal/explorer/document"
)

// Status is the normalized challenge-participation label. Every document
// resolves to exactly one of the four values.
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusPending    Status = "Pending"
	StatusCancelled  Status = "Cancelled"
	StatusInProgress Status = "In-progress"
)

// AllStatuses in display order.
var AllStatuses = []Status{StatusCompleted, StatusInProgress, StatusPending, StatusCancelled}

var (
	completedSynonyms = map[string]bool{"completed": true, "finished": true, "done": true}
	cancelledSynonyms = map[string]bool{"cancelled": true, "canceled": true, "failed": true}
	pendingSynonyms   = map[string]bool{"pending": true, "not_started": true}
)

// ResolveStatus buckets a participation record using its "completed" flag
// and / or free-text "status" field. Precedence: a true completion flag or
// a completed-synonym text wins, then cancelled synonyms, then pending
// synonyms; anything without a recognizable signal is in progress. The
// synonym match is case-insensitive.
func ResolveStatus(rec *document.Record) Status {
	flag, hasFlag := rec.NumberAt("completed")
	completedFlag := hasFlag && flag != 0

	text := strings.ToLower(strings.TrimSpace(rec.StringAt("status")))

	switch {
	case completedFlag || completedSynonyms[text]:
		return StatusCompleted
	case cancelledSynonyms[text]:
		return StatusCancelled
	case pendingSynonyms[text]:
		return StatusPending
	default:
		return StatusInProgress
	}
}
