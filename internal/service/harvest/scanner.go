package harvest

import (
	"fmt"
	"strings"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/domain/entity"
	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Scanner 执行一轮扫描:解析单元格、逆序计算标识并合并到会话中.
// 不访问浏览器,在线采集和离线解析共用
type Scanner struct {
	classifier   entity.Classifier
	cellSelector string
	limit        int
	logger       *zap.Logger
}

func NewScanner(cfg *config.Config, logger *zap.Logger) Scanner {
	markers := cfg.Harvest.Markers
	return Scanner{
		classifier: entity.Classifier{
			TimestampMarker:   markers.Timestamp,
			MessageMarker:     markers.Message,
			RatingMarker:      markers.Rating,
			RatingBoilerplate: markers.RatingBoilerplate,
		},
		cellSelector: cfg.Harvest.CellSelector,
		limit:        cfg.Harvest.MaxMessages,
		logger:       logger,
	}
}

// WithLimit 返回会话条数上限为n的副本,n<=0表示不限
func (s Scanner) WithLimit(n int) Scanner {
	s.limit = max(n, 0)
	return s
}

func (s Scanner) Limit() int {
	return s.limit
}

// reachedLimit 上限只统计聊天消息,时间戳等其他记录不计入
func (s Scanner) reachedLimit(conv *model.Conversation) bool {
	return s.limit > 0 && conv.Count(model.CellMessage) >= s.limit
}

// ScanHTML 解析整页HTML后执行一轮扫描,返回新增的条数
func (s Scanner) ScanHTML(html string, cycle int, conv *model.Conversation) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("解析HTML失败: %w", err)
	}
	return s.ScanSelection(doc.Selection, cycle, conv), nil
}

// ScanSelection 在root下查找单元格并逆序处理.
// 评分单元格不生成记录,其文本只附加到下一个处理的非评分单元格上
func (s Scanner) ScanSelection(root *goquery.Selection, cycle int, conv *model.Conversation) int {
	cells := s.classifier.ParseCells(root.Find(s.cellSelector))

	var (
		rating    string
		prev      = make([]string, 0, len(cells))
		added     int
		unclassed int
	)
	for i := len(cells) - 1; i >= 0; i-- {
		if s.reachedLimit(conv) {
			break
		}
		cell := cells[i]
		if cell.ClassToken == "" {
			unclassed++
		}
		if cell.Type == model.CellRating {
			rating = cell.Text
			continue
		}
		id := entity.Identity(cell, rating, prev)
		prev = append(prev, id)
		if conv.Add(cell.ToEntry(id, rating, cycle)) {
			added++
		}
		rating = ""
	}

	if unclassed > 0 {
		s.logger.Debug("cells without class metadata", zap.Int("cycle", cycle), zap.Int("count", unclassed))
	}
	return added
}
