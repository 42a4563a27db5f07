package docstore

import (
	"encoding/json"
	"reflect"
)

// Field transforms let a writer mutate an array field without having read its
// prior value. They are the store-native alternative to read-modify-write on
// shared arrays and are honored by both Store implementations, inside batches
// as well as in direct updates.

// ArrayUnion appends the given elements to an array field, skipping elements
// already present (deep equality after JSON normalization).
type ArrayUnion struct {
	Elems []any
}

// Union builds an ArrayUnion transform.
func Union(elems ...any) ArrayUnion {
	return ArrayUnion{Elems: elems}
}

// ArrayRemove removes every occurrence of the given elements from an array
// field.
type ArrayRemove struct {
	Elems []any
}

// Remove builds an ArrayRemove transform.
func Remove(elems ...any) ArrayRemove {
	return ArrayRemove{Elems: elems}
}

// DeleteField removes the field from the document.
type DeleteField struct{}

// normalize round-trips a value through JSON so that structs and maps with
// the same wire shape compare equal.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func containsNormalized(list []any, elem any) bool {
	for _, have := range list {
		if reflect.DeepEqual(normalize(have), elem) {
			return true
		}
	}
	return false
}

// applyTransform resolves one field value against the document's current
// field, returning the new field value and whether the field should be kept.
func applyTransform(current any, value any) (any, bool) {
	switch t := value.(type) {
	case ArrayUnion:
		list, _ := normalize(current).([]any)
		for _, elem := range t.Elems {
			norm := normalize(elem)
			if !containsNormalized(list, norm) {
				list = append(list, norm)
			}
		}
		return list, true
	case ArrayRemove:
		list, _ := normalize(current).([]any)
		var kept []any
		for _, have := range list {
			if !containsNormalized(t.Elems, normalize(have)) {
				kept = append(kept, have)
			}
		}
		return kept, true
	case DeleteField:
		return nil, false
	default:
		return normalize(value), true
	}
}

// applyFields merges partial fields (with transforms resolved) into a copy of
// the current document.
func applyFields(current Document, fields Document) Document {
	next := make(Document, len(current)+len(fields))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range fields {
		resolved, keep := applyTransform(next[k], v)
		if keep {
			next[k] = resolved
		} else {
			delete(next, k)
		}
	}
	return next
}
