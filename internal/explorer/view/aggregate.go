package view

import "github.com/mygymhq/adminboard/internal/explorer/document"

type StatKind int

const (
	// StatSum totals a numeric field across the page.
	StatSum StatKind = iota
	// StatDistinct counts distinct non-empty string values of a field.
	StatDistinct
	// StatBucketCounts counts records per value of a field, over a fixed
	// bucket list; the buckets are always present, so an empty page still
	// reports zeros.
	StatBucketCounts
)

type StatSpec struct {
	Name    string
	Kind    StatKind
	Field   string
	Buckets []string
}

// SummaryStats maps stat names to their values. Bucketed stats use
// "<name>:<bucket>" keys.
type SummaryStats map[string]float64

// Aggregate reduces a page of records into summary stats in a single
// left-to-right pass. It runs in time linear in the page size, never
// mutates its input and never fails: an empty page yields all-zero counts
// and zero-cardinality sets.
func Aggregate(records []*document.Record, specs []StatSpec) SummaryStats {
	stats := make(SummaryStats)
	distinct := make(map[string]map[string]bool)

	for _, spec := range specs {
		switch spec.Kind {
		case StatBucketCounts:
			for _, bucket := range spec.Buckets {
				stats[spec.Name+":"+bucket] = 0
			}
		case StatDistinct:
			stats[spec.Name] = 0
			distinct[spec.Name] = make(map[string]bool)
		default:
			stats[spec.Name] = 0
		}
	}

	for _, rec := range records {
		for _, spec := range specs {
			switch spec.Kind {
			case StatSum:
				if n, ok := rec.NumberAt(spec.Field); ok {
					stats[spec.Name] += n
				}
			case StatDistinct:
				if s := rec.StringAt(spec.Field); s != "" && s != document.Missing {
					distinct[spec.Name][s] = true
				}
			case StatBucketCounts:
				value := rec.StringAt(spec.Field)
				key := spec.Name + ":" + value
				if _, known := stats[key]; known {
					stats[key]++
				}
			}
		}
	}

	for name, set := range distinct {
		stats[name] = float64(len(set))
	}

	return stats
}
