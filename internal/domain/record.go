package domain

import "strconv"

// RawRecord is one decoded input row: source column name -> trimmed raw
// value. Row is the 1-based position among emitted data rows, matching the
// numbering validation errors report back to callers.
type RawRecord struct {
	Row     int
	Columns []string
	Values  map[string]string
}

// CanonicalRecord is a raw record after column mapping. Mapped canonical
// fields live in Fields; columns absent from the mapping are carried
// losslessly in Extra under their original names so a pass-through column
// can never clobber a mapped field.
type CanonicalRecord struct {
	Row    int
	Fields map[string]any
	Extra  map[string]string
}

// Get looks a field up by canonical name, falling back to the pass-through
// columns.
func (r CanonicalRecord) Get(name string) (any, bool) {
	if v, ok := r.Fields[name]; ok {
		return v, true
	}
	if v, ok := r.Extra[name]; ok {
		return v, true
	}
	return nil, false
}

// GetString returns the field rendered as a string, or "" when absent.
func (r CanonicalRecord) GetString(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

// Number returns the field as a float64, or 0 when absent or not numeric.
func (r CanonicalRecord) Number(name string) float64 {
	v, ok := r.Get(name)
	if !ok {
		return 0
	}
	switch typed := v.(type) {
	case float64:
		return typed
	case string:
		f, err := strconv.ParseFloat(typed, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Has reports whether the field is present in either key space.
func (r CanonicalRecord) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Payload flattens the record into a single map for opaque storage. Mapped
// fields win on name collisions with pass-through columns.
func (r CanonicalRecord) Payload() map[string]any {
	payload := make(map[string]any, len(r.Fields)+len(r.Extra))
	for k, v := range r.Extra {
		payload[k] = v
	}
	for k, v := range r.Fields {
		payload[k] = v
	}
	return payload
}

// ValidationError captures one rejected input row. Row numbers are 1-based
// positions in the source file so consumers can correlate back to it.
type ValidationError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
