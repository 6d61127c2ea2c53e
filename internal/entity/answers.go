package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnswerMap holds the answers collected by the wizard, keyed by step name.
// Keys keep the order in which they were first set.
type AnswerMap struct {
	keys   []string
	values map[string]string
}

// NewAnswerMap creates an empty answer map
func NewAnswerMap() *AnswerMap {
	return &AnswerMap{values: make(map[string]string)}
}

// Set stores the answer for a step. An existing key keeps its position.
func (m *AnswerMap) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the answer for a step
func (m *AnswerMap) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns step names in insertion order
func (m *AnswerMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *AnswerMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy
func (m *AnswerMap) Clone() *AnswerMap {
	out := NewAnswerMap()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Map returns the answers as a plain map
func (m *AnswerMap) Map() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the answers as a JSON object in insertion order
func (m *AnswerMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(m.values[k])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of strings, keeping document order
func (m *AnswerMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read answer map: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("answer map must be a JSON object")
	}

	m.keys = nil
	m.values = make(map[string]string)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read answer key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("answer key must be a string")
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("read answer %q: %w", key, err)
		}
		m.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read answer map end: %w", err)
	}

	return nil
}
