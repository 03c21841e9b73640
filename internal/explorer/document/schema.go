package document

// FieldSpec describes one logical field of a normalized record: where it
// may live in the raw document and how to canonicalize it. Source keys are
// tried in order, first non-empty wins; the different views in the store
// historically wrote the same logical field under different names.
type FieldSpec struct {
	Name    string
	Sources []string
	Kind    Kind
}

// Schema is the per-collection normalization table. It is plain data: each
// view supplies a schema, the normalization logic lives here once.
type Schema struct {
	Collection string
	Fields     []FieldSpec
}

// Normalize converts a raw document into a Record per the schema. It is a
// pure function of (raw, schema): no hidden state, no I/O, and it never
// fails. Every schema field is present in the result, missing or
// malformed values become the kind's sentinel.
func Normalize(raw Raw, schema Schema) *Record {
	rec := NewRecord()

	for _, field := range schema.Fields {
		value, found := pickField(raw, field.Sources)

		switch field.Kind {
		case KindID:
			rec.Set(field.Name, Value{Kind: KindID, Str: ResolveID(value)})
		case KindDate:
			rec.Set(field.Name, Value{Kind: KindDate, Time: ResolveDate(value)})
		case KindNumber:
			num, ok := ResolveNumber(value)
			rec.Set(field.Name, Value{Kind: KindNumber, Num: num, HasNum: ok})
		case KindCount:
			rec.Set(field.Name, countValue(value))
		case KindBlob:
			if !found {
				rec.Set(field.Name, Value{Kind: KindBlob, Str: Missing})
				break
			}
			rec.Set(field.Name, Value{Kind: KindBlob, Str: SummarizeValue(value)})
		case KindActions:
			FlattenActions(ParseActions(value), rec)
		default:
			rec.Set(field.Name, Value{Kind: KindText, Str: textValue(value)})
		}
	}

	return rec
}

// pickField returns the first non-empty value among the candidate keys.
func pickField(raw Raw, sources []string) (any, bool) {
	for _, key := range sources {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// countValue resolves an array-valued field to its element count; a plain
// number already holding the count passes through.
func countValue(v any) Value {
	if items, ok := v.([]any); ok {
		return Value{Kind: KindCount, Num: float64(len(items)), HasNum: true}
	}
	if num, ok := ResolveNumber(v); ok {
		return Value{Kind: KindCount, Num: num, HasNum: true}
	}
	return Value{Kind: KindCount}
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Truncate(t)
	default:
		return SummarizeValue(v)
	}
}
