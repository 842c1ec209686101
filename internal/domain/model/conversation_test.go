package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationFirstSeenWins(t *testing.T) {
	c := NewConversation()
	assert.True(t, c.Add(Entry{ID: "a", Type: CellMessage, Text: "Hello", Cycle: 0}))
	assert.True(t, c.Add(Entry{ID: "b", Type: CellTimestamp, Text: "10:02", Cycle: 0}))
	assert.False(t, c.Add(Entry{ID: "a", Type: CellMessage, Text: "Hello", Cycle: 3}))
	require.Equal(t, 2, c.Len())

	a, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 0, a.Cycle)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestConversationOrdering(t *testing.T) {
	c := NewConversation()
	for _, id := range []string{"newest", "middle", "oldest"} {
		require.True(t, c.Add(Entry{ID: id, Order: 99}))
	}

	var ids []string
	for _, e := range c.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"newest", "middle", "oldest"}, ids)

	ids = ids[:0]
	for _, e := range c.Chronological() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"oldest", "middle", "newest"}, ids)
}

func TestConversationMarshalJSON(t *testing.T) {
	c := NewConversation()
	c.Add(Entry{ID: "x1", Type: CellMessage, Text: "hi", Author: "user"})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var got map[string]Entry
	require.NoError(t, json.Unmarshal(data, &got))
	require.Contains(t, got, "x1")
	assert.Equal(t, "hi", got["x1"].Text)
	assert.Equal(t, CellMessage, got["x1"].Type)
}

func TestConversationCount(t *testing.T) {
	c := NewConversation()
	c.Add(Entry{ID: "m1", Type: CellMessage})
	c.Add(Entry{ID: "t1", Type: CellTimestamp})
	c.Add(Entry{ID: "m2", Type: CellMessage})
	c.Add(Entry{ID: "m1", Type: CellMessage})

	assert.Equal(t, 2, c.Count(CellMessage))
	assert.Equal(t, 1, c.Count(CellTimestamp))
	assert.Zero(t, c.Count(CellUnknown))
}
