package entity

import (
	"testing"

	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestIdentityDeterministic(t *testing.T) {
	c := Cell{Type: model.CellMessage, Text: "Hello", Author: "user"}
	a := Identity(c, "", []string{"p1", "p2"})
	b := Identity(c, "", []string{"p1", "p2"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestIdentitySensitivity(t *testing.T) {
	base := Cell{Type: model.CellMessage, Text: "Hello", Author: "user"}
	id := Identity(base, "", nil)

	other := base
	other.Text = "Hello!"
	assert.NotEqual(t, id, Identity(other, "", nil))

	other = base
	other.Type = model.CellTimestamp
	assert.NotEqual(t, id, Identity(other, "", nil))

	other = base
	other.Author = "bot"
	assert.NotEqual(t, id, Identity(other, "", nil))

	assert.NotEqual(t, id, Identity(base, "Loved", nil))
	assert.NotEqual(t, id, Identity(base, "", []string{"p1"}))
}

func TestIdentityContextWindow(t *testing.T) {
	c := Cell{Type: model.CellMessage, Text: "ok"}

	// 只有最近两个标识参与计算
	assert.Equal(t,
		Identity(c, "", []string{"p2", "p3"}),
		Identity(c, "", []string{"p0", "p1", "p2", "p3"}))

	// 顺序有意义
	assert.NotEqual(t,
		Identity(c, "", []string{"p2", "p3"}),
		Identity(c, "", []string{"p3", "p2"}))
}

func TestIdentityFieldBoundaries(t *testing.T) {
	a := Cell{Type: model.CellMessage, Text: "ab", Author: "c"}
	b := Cell{Type: model.CellMessage, Text: "a", Author: "bc"}
	assert.NotEqual(t, Identity(a, "", nil), Identity(b, "", nil))
}
