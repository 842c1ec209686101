package harvest

import (
	"testing"

	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScanThreeCellPass(t *testing.T) {
	s := NewScanner(testConfig(t), zap.NewNop())
	conv := model.NewConversation()

	added, err := s.ScanHTML(page(
		timestamp("10:02"),
		message("", "Hello"),
		rating("thumb upthumb downshow more actions"),
	), 0, conv)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	entries := conv.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.CellMessage, entries[0].Type)
	assert.Equal(t, "Hello", entries[0].Text)
	assert.Empty(t, entries[0].Rating)
	assert.Equal(t, model.CellTimestamp, entries[1].Type)
	assert.Equal(t, "10:02", entries[1].Text)
	assert.Empty(t, entries[1].Rating)
}

func TestScanIsIdempotent(t *testing.T) {
	s := NewScanner(testConfig(t), zap.NewNop())
	conv := model.NewConversation()
	html := page(message("user", "ok"), message("user", "ok"), message("user", "ok"))

	added, err := s.ScanHTML(html, 0, conv)
	require.NoError(t, err)
	// 内容相同的消息靠前序标识区分
	assert.Equal(t, 3, added)

	added, err = s.ScanHTML(html, 1, conv)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, 3, conv.Len())
}

func TestScanRepeatedContentDistinct(t *testing.T) {
	s := NewScanner(testConfig(t), zap.NewNop())
	conv := model.NewConversation()

	added, err := s.ScanHTML(page(message("user", "ok"), message("user", "ok")), 0, conv)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestScanRatingContext(t *testing.T) {
	s := NewScanner(testConfig(t), zap.NewNop())
	conv := model.NewConversation()

	_, err := s.ScanHTML(page(
		message("user", "first"),
		rating("Funny"),
		message("bot", "second"),
		rating("Loved"),
	), 0, conv)
	require.NoError(t, err)

	got := map[string]string{}
	for _, e := range conv.Entries() {
		got[e.Text] = e.Rating
	}
	assert.Equal(t, map[string]string{"second": "Loved", "first": "Funny"}, got)
}

func TestScanUnclassifiedCells(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewScanner(testConfig(t), zap.New(core))
	conv := model.NewConversation()

	added, err := s.ScanHTML(page(
		`<div role="gridcell"><span>no class</span></div>`,
		`<div role="gridcell" class="Unknown__Thing">odd</div>`,
	), 0, conv)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	for _, e := range conv.Entries() {
		assert.Equal(t, model.CellUnknown, e.Type)
	}

	debug := logs.FilterMessage("cells without class metadata").All()
	require.Len(t, debug, 1)
	assert.Equal(t, int64(1), debug[0].ContextMap()["count"])
}

func TestScanLimit(t *testing.T) {
	s := NewScanner(testConfig(t), zap.NewNop()).WithLimit(1)
	conv := model.NewConversation()

	added, err := s.ScanHTML(page(message("user", "old"), message("bot", "new")), 0, conv)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	e := conv.Entries()[0]
	assert.Equal(t, "new", e.Text)

	assert.Zero(t, NewScanner(testConfig(t), zap.NewNop()).WithLimit(-3).Limit())
}

func TestScanLimitCountsMessagesOnly(t *testing.T) {
	s := NewScanner(testConfig(t), zap.NewNop()).WithLimit(2)
	conv := model.NewConversation()

	_, err := s.ScanHTML(page(
		message("user", "1"),
		timestamp("10:00"),
		message("bot", "2"),
		timestamp("10:05"),
		message("user", "3"),
	), 0, conv)
	require.NoError(t, err)

	assert.Equal(t, 2, conv.Count(model.CellMessage))
	var texts []string
	for _, e := range conv.Entries() {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"3", "10:05", "2"}, texts)
}

func newConversationFrom(t *testing.T, s Scanner, html string) *model.Conversation {
	t.Helper()
	conv := model.NewConversation()
	_, err := s.ScanHTML(html, 0, conv)
	require.NoError(t, err)
	return conv
}
