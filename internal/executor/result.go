package executor

import (
	"bytes"
	"encoding/json"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Result is the outcome of one execution. Data is nil both when a non-null
// violation reached the root and when the request failed before any field
// ran; only the former reports "data": null.
type Result struct {
	Data   *ResultMap
	Errors gqlerror.List

	executed bool
}

// HasData reports whether execution started, i.e. whether the response
// carries a data entry.
func (r *Result) HasData() bool { return r.executed }

// MarshalJSON emits {"data": ...} or {"errors": [...], "data": ...}, and
// {"errors": [...]} for request-level failures.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if len(r.Errors) > 0 {
		errs, err := json.Marshal(r.Errors)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"errors":`)
		buf.Write(errs)
	}
	if r.executed {
		if len(r.Errors) > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"data":`)
		if r.Data == nil {
			buf.WriteString("null")
		} else {
			data, err := r.Data.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ResultMap is a response object whose keys keep selection order.
type ResultMap struct {
	keys   []string
	values map[string]any
}

func newResultMap(size int) *ResultMap {
	return &ResultMap{keys: make([]string, 0, size), values: make(map[string]any, size)}
}

func (m *ResultMap) set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *ResultMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the response keys in selection order.
func (m *ResultMap) Keys() []string { return m.keys }
func (m *ResultMap) Len() int       { return len(m.keys) }

// ToMap converts the tree into plain maps and slices.
func (m *ResultMap) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = plain(m.values[k])
	}
	return out
}

func plain(v any) any {
	switch v := v.(type) {
	case *ResultMap:
		if v == nil {
			return nil
		}
		return v.ToMap()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	}
	return v
}

func (m *ResultMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
