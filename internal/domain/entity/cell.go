package entity

import (
	"strings"

	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/PuerkitoBio/goquery"
)

// Cell 从一个 role=gridcell 元素解析出的原始单元格,每轮扫描重新生成,生成后不再修改
type Cell struct {
	Type   model.CellType
	Text   string
	Author string
	// ClassToken 用于分类的class,单元格及其第一个子元素都没有class时为空
	ClassToken string
}

func (c Cell) ToEntry(id, rating string, cycle int) model.Entry {
	return model.Entry{
		ID:     id,
		Type:   c.Type,
		Text:   c.Text,
		Author: c.Author,
		Rating: rating,
		Cycle:  cycle,
	}
}

// Classifier 根据class中的标记判断单元格类型,标记随站点样式变化,来自配置
type Classifier struct {
	TimestampMarker   string
	MessageMarker     string
	RatingMarker      string
	RatingBoilerplate string
}

// ParseCells 按文档顺序解析选中的单元格
func (c Classifier) ParseCells(sel *goquery.Selection) []Cell {
	cells := make([]Cell, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, c.Parse(s))
	})
	return cells
}

func (c Classifier) Parse(s *goquery.Selection) Cell {
	cell := Cell{
		Text:       s.Text(),
		Author:     s.AttrOr("data-author", ""),
		ClassToken: classToken(s),
	}
	cell.Type = c.classify(cell.ClassToken)
	if cell.Type == model.CellRating && c.isBoilerplate(cell.Text) {
		cell.Text = ""
	}
	return cell
}

func (c Classifier) classify(token string) model.CellType {
	switch {
	case token == "":
		return model.CellUnknown
	case c.TimestampMarker != "" && strings.Contains(token, c.TimestampMarker):
		return model.CellTimestamp
	case c.MessageMarker != "" && strings.Contains(token, c.MessageMarker):
		return model.CellMessage
	case c.RatingMarker != "" && strings.Contains(token, c.RatingMarker):
		return model.CellRating
	default:
		return model.CellUnknown
	}
}

// isBoilerplate 忽略空白比较,按钮文字之间有没有空格取决于渲染方式
func (c Classifier) isBoilerplate(text string) bool {
	if c.RatingBoilerplate == "" {
		return false
	}
	return squash(text) == squash(c.RatingBoilerplate)
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// classToken 取单元格的第一个class,没有时取第一个子元素的第一个class
func classToken(s *goquery.Selection) string {
	if tok := firstClass(s); tok != "" {
		return tok
	}
	return firstClass(s.Children().First())
}

func firstClass(s *goquery.Selection) string {
	cls, ok := s.Attr("class")
	if !ok {
		return ""
	}
	fields := strings.Fields(cls)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
