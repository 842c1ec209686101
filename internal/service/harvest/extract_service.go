package harvest

import (
	"context"
	"fmt"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/collector"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

type extractService struct {
	scanner      Scanner
	newCollector func() collector.CollyCrawler
	logger       *zap.Logger
}

func InitExtractService(cfg *config.Config, logger *zap.Logger) ExtractService {
	logger = logger.Named("extract")
	userAgent := cfg.Rod.UserAgent
	return &extractService{
		scanner: NewScanner(cfg, logger),
		newCollector: func() collector.CollyCrawler {
			return collector.InitCollyCrawler(userAgent, logger)
		},
		logger: logger,
	}
}

// Extract 对保存的页面执行一轮扫描,结果与在线采集的单轮结果一致
func (es *extractService) Extract(ctx context.Context, path string) (*model.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conv := model.NewConversation()
	added := 0

	c := es.newCollector()
	c.OnHTML("html", func(e *colly.HTMLElement) {
		added += es.scanner.ScanSelection(e.DOM, 0, conv)
	})
	c.OnScraped(func(r *colly.Response) {
		es.logger.Debug("page scraped", zap.String("url", r.Request.URL.String()), zap.Int("bytes", len(r.Body)))
	})
	c.OnError(func(r *colly.Response, err error) {
		es.logger.Error("read page failed", zap.String("url", r.Request.URL.String()), zap.Error(err))
	})

	if err := c.VisitFile(path); err != nil {
		return nil, fmt.Errorf("读取页面 %s 失败: %w", path, err)
	}
	c.Wait()

	es.logger.Info("extract finished", zap.String("path", path), zap.Int("total", added))
	return conv, nil
}
