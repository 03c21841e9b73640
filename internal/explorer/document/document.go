// Package document turns loosely-typed store documents into canonical,
// display-ready records. The backing store is schema-less, so every field
// can arrive in several encodings (plain values, extended-JSON wrappers,
// nested documents) or be missing entirely. Nothing in this package ever
// fails: malformed input degrades to a sentinel value instead.
package document

import "time"

// Raw is an unvalidated document as returned by the store. Field presence,
// type and encoding are not guaranteed.
type Raw = map[string]any

// Missing is the placeholder rendered for absent or unparseable values.
const Missing = "-"

// Kind tells the normalizer and the projector how to treat a field.
type Kind int

const (
	KindText Kind = iota
	KindID
	KindDate
	KindNumber
	KindBlob
	KindActions
	// KindCount resolves to the element count of an array-valued field.
	KindCount
)

// Value is a canonical scalar produced by normalization. Exactly one of
// the typed members is meaningful, selected by Kind; the zero value of the
// respective member is the missing sentinel.
type Value struct {
	Kind   Kind
	Str    string
	Time   time.Time
	Num    float64
	HasNum bool
}

// Record is the canonicalized form of a Raw document. Field order is the
// schema's field order (with flattened action fields appended), so record
// iteration is deterministic.
type Record struct {
	names  []string
	values map[string]Value
}

func NewRecord() *Record {
	return &Record{
		values: make(map[string]Value),
	}
}

func (r *Record) Set(name string, v Value) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

func (r *Record) Value(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Names returns field names in insertion order.
func (r *Record) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r *Record) StringAt(name string) string {
	if v, ok := r.values[name]; ok {
		return v.Str
	}
	return ""
}

func (r *Record) TimeAt(name string) time.Time {
	if v, ok := r.values[name]; ok {
		return v.Time
	}
	return time.Time{}
}

func (r *Record) NumberAt(name string) (float64, bool) {
	if v, ok := r.values[name]; ok && v.HasNum {
		return v.Num, true
	}
	return 0, false
}

// Empty reports whether the record holds only sentinel values, i.e. the
// source document had none of the schema's fields set. The exercises view
// hides such records.
func (r *Record) Empty() bool {
	for _, v := range r.values {
		switch v.Kind {
		case KindDate:
			if !v.Time.IsZero() {
				return false
			}
		case KindNumber, KindCount:
			if v.HasNum {
				return false
			}
		default:
			if v.Str != "" && v.Str != Missing {
				return false
			}
		}
	}
	return true
}
