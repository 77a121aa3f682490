package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type op struct {
	Query     string     `json:"query"`
	Variables FlexObject `json:"variables"`
}

func TestBatchSingleObject(t *testing.T) {
	var b Batch[op]
	require.NoError(t, json.Unmarshal([]byte(` {"query":"{ a }"}`), &b))
	assert.False(t, b.Batched)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "{ a }", b.Items[0].Query)
}

func TestBatchArray(t *testing.T) {
	var b Batch[op]
	require.NoError(t, json.Unmarshal([]byte(`[{"query":"{ a }"},{"query":"{ b }"}]`), &b))
	assert.True(t, b.Batched)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "{ b }", b.Items[1].Query)
}

func TestBatchRejectsGarbage(t *testing.T) {
	var b Batch[op]
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &b))
}

func TestFlexObject(t *testing.T) {
	var o op
	require.NoError(t, json.Unmarshal([]byte(`{"variables":{"id":"x"}}`), &o))
	assert.Equal(t, "x", o.Variables["id"])

	o = op{}
	require.NoError(t, json.Unmarshal([]byte(`{"variables":"{\"id\":\"y\"}"}`), &o))
	assert.Equal(t, "y", o.Variables["id"])

	o = op{}
	require.NoError(t, json.Unmarshal([]byte(`{"variables":""}`), &o))
	assert.Nil(t, o.Variables)

	assert.Error(t, json.Unmarshal([]byte(`{"variables":"[1]"}`), &o))
	assert.Error(t, json.Unmarshal([]byte(`{"variables":3}`), &o))
}
