package view

import (
	"context"
	"sync"
	"time"

	"github.com/mygymhq/adminboard/internal/explorer/client"
	"github.com/mygymhq/adminboard/internal/explorer/document"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=loader_mocks_test.go -package=view_test

type fetcher interface {
	FetchPage(ctx context.Context, name string, page, size int) (*client.CollectionPage, error)
}

// State is the transient result of one view load. On a re-fetch failure
// the previous Table and Summary are deliberately carried over, so an
// already-rendered view is never blanked by a transient error; Err flags
// the failure for the error banner.
type State struct {
	// Records is the normalized page behind the table, for consumers that
	// post-process it (steps ranking, exercise filtering).
	Records  []*document.Record
	Table    TableView
	Summary  SummaryStats
	Total    int
	RowCount int
	// Empty marks a successful fetch that returned no records, distinct
	// from the error state.
	Empty    bool
	Err      error
	LoadedAt time.Time
}

// Loader runs the fetch -> normalize -> project pipeline for a view.
// It holds no state across calls; each Load is a fresh full run.
type Loader struct {
	fetcher fetcher
}

func NewLoader(f fetcher) *Loader {
	return &Loader{fetcher: f}
}

// Load fetches the view's collections (primary plus optional join lookup,
// in parallel, with a join barrier before any normalization), then
// normalizes, derives, projects and aggregates. A failed primary fetch
// returns prev's data with Err set; a failed join lookup degrades to
// unresolved display names rather than failing the view.
func (l *Loader) Load(ctx context.Context, cfg Config, prev *State) *State {
	var (
		wg       sync.WaitGroup
		page     *client.CollectionPage
		pageErr  error
		joinPage *client.CollectionPage
		joinErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		page, pageErr = l.fetcher.FetchPage(ctx, cfg.Collection, 1, cfg.PageSize)
	}()

	if cfg.Join != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			joinPage, joinErr = l.fetcher.FetchPage(ctx, cfg.Join.Collection, 1, cfg.Join.PageSize)
		}()
	}

	// join barrier: nothing is normalized until every fetch settled
	wg.Wait()

	if pageErr != nil {
		log.Errorf("load view [%s]: %s", cfg.Collection, pageErr)
		state := &State{Err: pageErr, LoadedAt: time.Now()}
		if prev != nil {
			// keep the last good page visible under the error banner
			state.Records = prev.Records
			state.Table = prev.Table
			state.Summary = prev.Summary
			state.Total = prev.Total
			state.RowCount = prev.RowCount
		}
		return state
	}

	var lookup map[string]string
	if cfg.Join != nil {
		if joinErr != nil {
			log.Warnf("load view [%s]: join lookup [%s] failed, degrading to unresolved names: %s",
				cfg.Collection, cfg.Join.Collection, joinErr)
		} else {
			lookup = buildNameLookup(joinPage.Docs, cfg.Join.NameSources)
		}
	}

	records := make([]*document.Record, 0, len(page.Docs))
	for _, raw := range page.Docs {
		rec := document.Normalize(raw, cfg.Schema)
		if cfg.HideEmpty && rec.Empty() {
			continue
		}
		if cfg.Derive != nil {
			cfg.Derive(rec)
		}
		if cfg.Join != nil {
			joinName(rec, cfg.Join, lookup)
		}
		records = append(records, rec)
	}

	columns := cfg.Columns
	if len(columns) == 0 {
		columns = AutoColumns(records)
	}

	return &State{
		Records:  records,
		Table:    Project(records, columns),
		Summary:  Aggregate(records, cfg.Stats),
		Total:    page.Total,
		RowCount: len(records),
		Empty:    len(records) == 0,
		LoadedAt: time.Now(),
	}
}

func buildNameLookup(docs []map[string]any, nameSources []string) map[string]string {
	lookup := make(map[string]string, len(docs))
	for _, doc := range docs {
		id := document.ResolveID(doc["_id"])
		if id == "" {
			continue
		}
		for _, source := range nameSources {
			if name, ok := doc[source].(string); ok && name != "" {
				lookup[id] = name
				break
			}
		}
	}
	return lookup
}

func joinName(rec *document.Record, join *JoinSpec, lookup map[string]string) {
	name := lookup[rec.StringAt(join.LocalField)]
	if name == "" {
		name = "Unknown"
	}
	rec.Set(join.NameField, document.Value{Kind: document.KindText, Str: name})
}
