package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerMapKeepsInsertionOrder(t *testing.T) {
	m := NewAnswerMap()
	m.Set("idea", "X")
	m.Set("problem", "Y")
	m.Set("mechanism", "Z")
	m.Set("problem", "Y2")

	assert.Equal(t, []string{"idea", "problem", "mechanism"}, m.Keys())
	v, ok := m.Get("problem")
	require.True(t, ok)
	assert.Equal(t, "Y2", v)
	assert.Equal(t, 3, m.Len())
}

func TestAnswerMapJSONOrder(t *testing.T) {
	m := NewAnswerMap()
	m.Set("status", "s")
	m.Set("idea", "i")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"s","idea":"i"}`, string(data))

	var back AnswerMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"status", "idea"}, back.Keys())
}

func TestAnswerMapUnmarshalRejectsNonObject(t *testing.T) {
	var m AnswerMap
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &m))
}

func TestAnswerMapCloneIsIndependent(t *testing.T) {
	m := NewAnswerMap()
	m.Set("idea", "X")

	c := m.Clone()
	c.Set("idea", "changed")
	c.Set("problem", "Y")

	v, _ := m.Get("idea")
	assert.Equal(t, "X", v)
	assert.Equal(t, 1, m.Len())
}

func TestNilAnswerMap(t *testing.T) {
	var m *AnswerMap
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Keys())
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
