package model

import (
	"encoding/json"
	"slices"
)

// CellType 聊天单元格的类型
type CellType string

const (
	CellUnknown   CellType = ""
	CellTimestamp CellType = "timestamp"
	CellMessage   CellType = "chat-message"
	CellRating    CellType = "rating"
)

// Entry 会话中的一条记录,插入后不再修改
type Entry struct {
	ID     string   `json:"id"`
	Type   CellType `json:"type"`
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Rating string   `json:"rating"`
	// Order 首次插入时分配的全局递增序号;采集从最新消息向前扫描,序号越小消息越新
	Order int `json:"order"`
	// Cycle 首次看到该记录的扫描轮次
	Cycle int `json:"cycle"`
}

// Conversation 标识 -> 记录 的累积结果集,只增不减,同一标识先到先得.
// 只由一次采集独占使用,不支持并发访问
type Conversation struct {
	entries map[string]*Entry
	counts  map[CellType]int
	seq     int
}

func NewConversation() *Conversation {
	return &Conversation{
		entries: make(map[string]*Entry),
		counts:  make(map[CellType]int),
	}
}

// Add 插入新记录并分配Order;标识已存在时不覆盖,返回false
func (c *Conversation) Add(e Entry) bool {
	if _, ok := c.entries[e.ID]; ok {
		return false
	}
	e.Order = c.seq
	c.seq++
	c.entries[e.ID] = &e
	c.counts[e.Type]++
	return true
}

func (c *Conversation) Len() int {
	return len(c.entries)
}

// Count 指定类型的记录数
func (c *Conversation) Count(t CellType) int {
	return c.counts[t]
}

func (c *Conversation) Get(id string) (Entry, bool) {
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries 按Order升序返回,即从最新到最旧
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Order - b.Order })
	return out
}

// Chronological 从最旧到最新
func (c *Conversation) Chronological() []Entry {
	out := c.Entries()
	slices.Reverse(out)
	return out
}

// MarshalJSON 输出 标识 -> 记录 的映射
func (c *Conversation) MarshalJSON() ([]byte, error) {
	m := make(map[string]*Entry, len(c.entries))
	for id, e := range c.entries {
		m[id] = e
	}
	return json.Marshal(m)
}
