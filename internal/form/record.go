package form

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Record holds the in-memory values of one wizard step. All mutations go
// through named operations so a single owner (the UI goroutine) stays the
// only writer.
type Record struct {
	values map[string]interface{}
	dirty  map[string]bool
}

func NewRecord(fields ...string) *Record {
	r := &Record{
		values: make(map[string]interface{}, len(fields)),
		dirty:  make(map[string]bool),
	}
	for _, f := range fields {
		r.values[f] = ""
	}
	return r
}

func (r *Record) Get(field string) interface{} {
	return r.values[field]
}

// IsEmpty reports whether a field holds no user-visible value. Zero numbers
// count as empty so extracted values can fill numeric fields left at their
// defaults.
func (r *Record) IsEmpty(field string) bool {
	v, ok := r.values[field]
	if !ok {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case bool:
		return !val
	default:
		return false
	}
}

// Set writes a field value and marks it dirty. Unknown fields are accepted;
// the backend schema is the source of truth, not the local default set.
func (r *Record) Set(field string, value interface{}) {
	r.values[field] = value
	r.dirty[field] = true
}

func (r *Record) IsDirty(field string) bool {
	return r.dirty[field]
}

func (r *Record) Fields() []string {
	fields := make([]string, 0, len(r.values))
	for f := range r.values {
		fields = append(fields, f)
	}
	return fields
}

// Values returns a copy of the current values, safe for serialization.
func (r *Record) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.values)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	values := make(map[string]interface{})
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if r.values == nil {
		r.values = make(map[string]interface{}, len(values))
	}
	if r.dirty == nil {
		r.dirty = make(map[string]bool)
	}
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}
