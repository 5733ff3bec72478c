package domain

import "time"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceTime returns the first non-nil *time.Time, or nil when all are nil.
func CoalesceTime(ptrs ...*time.Time) *time.Time {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}

// CopyRelations deep-copies a relation map so callers can mutate the result
// without touching the source. A nil map stays nil.
func CopyRelations(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string{}, v...)
	}
	return out
}
