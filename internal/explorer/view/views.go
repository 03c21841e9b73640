package view

import (
	"strings"

	"github.com/mygymhq/adminboard/internal/explorer/collections"
	"github.com/mygymhq/adminboard/internal/explorer/document"
)

// JoinSpec declares a secondary lookup fetched in parallel with the
// primary collection: the id held in LocalField is resolved against the
// joined collection and the matched document's display name (first
// non-empty of NameSources) fills NameField.
type JoinSpec struct {
	Collection  string
	PageSize    int
	LocalField  string
	NameField   string
	NameSources []string
}

// Config is everything a view supplies: which collection, how to
// normalize it, which columns to show and which stats to derive. Ordering
// of "latest N" semantics is collection-specific, captured by the schema's
// date fields rather than assumed globally.
type Config struct {
	Collection string
	PageSize   int
	Schema     document.Schema
	Columns    []ColumnSpec
	Stats      []StatSpec
	// HideEmpty drops records where every normalized field is a sentinel.
	HideEmpty bool
	// Derive adds computed fields after normalization (status labels,
	// progress text), so columns and stats can reference them.
	Derive func(*document.Record)
	Join   *JoinSpec
}

// Activities is the user-activity overview: activities joined against
// users for display names, nested action counters flattened per type.
func Activities() Config {
	return Config{
		Collection: collections.Activities,
		PageSize:   100,
		Schema: document.Schema{
			Collection: collections.Activities,
			Fields: []document.FieldSpec{
				{Name: "userId", Sources: []string{"userId", "user", "created_for"}, Kind: document.KindID},
				{Name: "actions", Sources: []string{"actions"}, Kind: document.KindActions},
				{Name: "lastUpdated", Sources: []string{"lastUpdated", "last_updated"}, Kind: document.KindDate},
				{Name: "createdAt", Sources: []string{"created_at", "createdAt"}, Kind: document.KindDate},
			},
		},
		Columns: []ColumnSpec{
			{Field: "userName", Label: "User"},
			{Field: "userId", Label: "User ID"},
			{Field: "activity", Label: "Activity"},
			{Field: "lastUpdated", Label: "Last Updated"},
			{Field: "createdAt", Label: "Created At"},
		},
		Stats: []StatSpec{
			{Name: "uniqueUsers", Kind: StatDistinct, Field: "userId"},
			{Name: "totalLogins", Kind: StatSum, Field: "loginCount"},
		},
		Join: &JoinSpec{
			Collection:  collections.Users,
			PageSize:    500,
			LocalField:  "userId",
			NameField:   "userName",
			NameSources: []string{"name", "username", "email"},
		},
	}
}

// DailySteps lists recent step records, newest first.
func DailySteps() Config {
	return Config{
		Collection: collections.DailySteps,
		PageSize:   100,
		Schema: document.Schema{
			Collection: collections.DailySteps,
			Fields: []document.FieldSpec{
				{Name: "userId", Sources: []string{"user_id", "userId", "user"}, Kind: document.KindID},
				{Name: "date", Sources: []string{"date", "day", "created_at"}, Kind: document.KindDate},
				{Name: "steps", Sources: []string{"steps", "count", "total_steps"}, Kind: document.KindNumber},
			},
		},
		Columns: []ColumnSpec{
			{Field: "userId", Label: "User ID"},
			{Field: "date", Label: "Date"},
			{Field: "steps", Label: "Steps"},
		},
		Stats: []StatSpec{
			{Name: "totalSteps", Kind: StatSum, Field: "steps"},
			{Name: "uniqueUsers", Kind: StatDistinct, Field: "userId"},
		},
	}
}

// Challenges shows per-user challenge participation, sourced from the
// challengesworks collection where participation records actually live.
func Challenges() Config {
	return Config{
		Collection: collections.ChallengesWorks,
		PageSize:   50,
		Schema: document.Schema{
			Collection: collections.ChallengesWorks,
			Fields: []document.FieldSpec{
				{Name: "challengeId", Sources: []string{"challenge_id", "challengeId", "challenge"}, Kind: document.KindID},
				{Name: "userId", Sources: []string{"user_id", "userId", "user"}, Kind: document.KindID},
				{Name: "status", Sources: []string{"status", "state", "challengeStatus"}, Kind: document.KindText},
				{Name: "completed", Sources: []string{"completed", "isCompleted"}, Kind: document.KindNumber},
				{Name: "progress", Sources: []string{"progress", "progressPercent", "percentage"}, Kind: document.KindNumber},
				{Name: "stepsDone", Sources: []string{"steps_done", "currentSteps", "completedSteps"}, Kind: document.KindNumber},
				{Name: "stepsGoal", Sources: []string{"steps_goal", "goalSteps", "targetSteps"}, Kind: document.KindNumber},
				{Name: "updatedAt", Sources: []string{"updatedAt", "lastUpdated", "updated_at"}, Kind: document.KindDate},
			},
		},
		Columns: []ColumnSpec{
			{Field: "challengeId", Label: "Challenge"},
			{Field: "userId", Label: "User"},
			{Field: "statusLabel", Label: "Status"},
			{Field: "progressText", Label: "Progress"},
			{Field: "updatedAt", Label: "Updated"},
		},
		Stats: []StatSpec{
			{Name: "uniqueChallenges", Kind: StatDistinct, Field: "challengeId"},
			{Name: "status", Kind: StatBucketCounts, Field: "statusLabel", Buckets: statusBuckets()},
		},
		Derive: func(rec *document.Record) {
			rec.Set("statusLabel", document.Value{Kind: document.KindText, Str: string(ResolveStatus(rec))})
			rec.Set("progressText", document.Value{Kind: document.KindText, Str: ProgressText(rec)})
		},
	}
}

// Exercise level buckets; unrecognized levels fall into Other.
var exerciseLevels = []string{"Beginner", "Intermediate", "Advanced"}

// Exercises is the exercise library view. Records with no meaningful
// fields are hidden, matching the admin dashboard behavior.
func Exercises() Config {
	return Config{
		Collection: collections.Exercises,
		PageSize:   100,
		Schema: document.Schema{
			Collection: collections.Exercises,
			Fields: []document.FieldSpec{
				{Name: "name", Sources: []string{"name"}, Kind: document.KindText},
				{Name: "level", Sources: []string{"levels", "level"}, Kind: document.KindText},
				{Name: "subCategory", Sources: []string{"sub_categories_Name", "subCategory"}, Kind: document.KindText},
				{Name: "video", Sources: []string{"video"}, Kind: document.KindBlob},
				{Name: "description", Sources: []string{"description"}, Kind: document.KindBlob},
				{Name: "createdAt", Sources: []string{"created_at", "createdAt"}, Kind: document.KindDate},
			},
		},
		Columns: []ColumnSpec{
			{Field: "name", Label: "Name"},
			{Field: "levelBucket", Label: "Level"},
			{Field: "subCategory", Label: "Sub-category"},
			{Field: "description", Label: "Description"},
			{Field: "video", Label: "Video"},
		},
		Stats: []StatSpec{
			{Name: "level", Kind: StatBucketCounts, Field: "levelBucket", Buckets: append(append([]string{}, exerciseLevels...), "Other")},
		},
		HideEmpty: true,
		Derive: func(rec *document.Record) {
			rec.Set("levelBucket", document.Value{Kind: document.KindText, Str: levelBucket(rec.StringAt("level"))})
		},
	}
}

// Conversations lists chat threads with participant counts.
func Conversations() Config {
	return Config{
		Collection: collections.Conversations,
		PageSize:   50,
		Schema: document.Schema{
			Collection: collections.Conversations,
			Fields: []document.FieldSpec{
				{Name: "participants", Sources: []string{"participants", "members"}, Kind: document.KindBlob},
				{Name: "participantsCount", Sources: []string{"participants", "members"}, Kind: document.KindCount},
				{Name: "lastMessage", Sources: []string{"lastMessage", "last_message"}, Kind: document.KindBlob},
				{Name: "updatedAt", Sources: []string{"updatedAt", "updated_at"}, Kind: document.KindDate},
				{Name: "createdAt", Sources: []string{"created_at", "createdAt"}, Kind: document.KindDate},
			},
		},
		Columns: []ColumnSpec{
			{Field: "participants", Label: "Participants"},
			{Field: "participantsCount", Label: "Count"},
			{Field: "lastMessage", Label: "Last Message"},
			{Field: "updatedAt", Label: "Updated"},
		},
		Stats: []StatSpec{
			{Name: "totalParticipants", Kind: StatSum, Field: "participantsCount"},
		},
	}
}

func statusBuckets() []string {
	buckets := make([]string, 0, len(AllStatuses))
	for _, status := range AllStatuses {
		buckets = append(buckets, string(status))
	}
	return buckets
}

func levelBucket(level string) string {
	trimmed := strings.TrimSpace(level)
	for _, known := range exerciseLevels {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}
	return "Other"
}

// FilterExercises applies the admin view's name search and level filter.
// An empty search term matches everything; levelFilter is one of the level
// buckets, "Other", or "all".
func FilterExercises(records []*document.Record, searchTerm, levelFilter string) []*document.Record {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	var filtered []*document.Record
	for _, rec := range records {
		name := strings.ToLower(rec.StringAt("name"))
		if term != "" && !strings.Contains(name, term) {
			continue
		}
		if levelFilter != "" && levelFilter != "all" &&
			!strings.EqualFold(rec.StringAt("levelBucket"), levelFilter) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}
