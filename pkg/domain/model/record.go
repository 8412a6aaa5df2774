package model

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// Field is a single column/value pair of a Record
type Field struct {
	Key   string
	Value string
}

// Record is one row of the source dataset. Keys keep the CSV header order.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates a Record from fields in column order. A repeated key keeps
// its first position and takes the last value.
func NewRecord(fields ...Field) Record {
	r := Record{
		keys:   make([]string, 0, len(fields)),
		values: make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		if _, exists := r.values[f.Key]; !exists {
			r.keys = append(r.keys, f.Key)
		}
		r.values[f.Key] = f.Value
	}
	return r
}

// RecordFromMap creates a Record from a map. Keys are sorted since maps carry
// no order.
func RecordFromMap(m map[string]string) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Value: m[k]})
	}
	return NewRecord(fields...)
}

// Get returns the raw value of a column and whether the column is present
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the raw value of a column, or "" when absent
func (r Record) Value(key string) string {
	return r.values[key]
}

// Keys returns the column names in order
func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Fields returns the column/value pairs in order
func (r Record) Fields() []Field {
	fields := make([]Field, 0, len(r.keys))
	for _, k := range r.keys {
		fields = append(fields, Field{Key: k, Value: r.values[k]})
	}
	return fields
}

// Map returns a copy of the values keyed by column name
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// Len returns the number of columns
func (r Record) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the record as a JSON object in column order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the member order. Non-string
// scalars keep their literal text and null members are treated as absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return goerr.Wrap(err, "failed to read record")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return goerr.New("record must be a JSON object", goerr.V("token", tok))
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return goerr.Wrap(err, "failed to read record key")
		}
		key, ok := tok.(string)
		if !ok {
			return goerr.New("record key must be a string", goerr.V("token", tok))
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return goerr.Wrap(err, "failed to read record value", goerr.V("key", key))
		}

		value, present, err := rawToString(raw)
		if err != nil {
			return goerr.Wrap(err, "invalid record value", goerr.V("key", key))
		}
		if present {
			fields = append(fields, Field{Key: key, Value: value})
		}
	}

	if _, err := dec.Token(); err != nil {
		return goerr.Wrap(err, "failed to close record")
	}

	*r = NewRecord(fields...)
	return nil
}

func rawToString(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return "", false, goerr.New("empty value")
	case bytes.Equal(trimmed, []byte("null")):
		return "", false, nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			return "", false, err
		}
		return compact.String(), true, nil
	}
}

// writeJSONString writes s as a JSON string without HTML escaping
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return goerr.Wrap(err, "failed to encode string")
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
