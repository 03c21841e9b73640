// Package collections is the single source of truth for which store
// collections the admin explorer may read. Both the server route guard and
// the client-side fetcher validate against this list, so the two can never
// drift apart.
package collections

import "sort"

const (
	Activities      = "activities"
	Challenges      = "challenges"
	ChallengesWorks = "challengesworks"
	Conversations   = "conversations"
	Carts           = "carts"
	DailySteps      = "dailysteps"
	Exercises       = "exercises"
	Users           = "users"
)

var allowed = map[string]bool{
	Activities:               true,
	"activityfeeds":          true,
	"attendances":            true,
	"auditlogs":              true,
	"audittrails":            true,
	"blogs":                  true,
	"bmrs":                   true,
	Carts:                    true,
	"certifications":         true,
	Challenges:               true,
	ChallengesWorks:          true,
	"chatmembers":            true,
	"commonpages":            true,
	Conversations:            true,
	"createmembershiptokens": true,
	DailySteps:               true,
	"exercisecategories":     true,
	"exerciselevels":         true,
	Exercises:                true,
	"exercisesubcategories":  true,
	Users:                    true,
}

func Allowed(name string) bool {
	return allowed[name]
}

// Names returns the whitelist sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(allowed))
	for name := range allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
