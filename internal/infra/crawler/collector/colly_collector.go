package collector

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

type collyCrawler struct {
	colly  *colly.Collector
	logger *zap.Logger
}

// InitCollyCrawler 创建只处理本地文件的collector,每次解析使用一个新的实例
func InitCollyCrawler(userAgent string, logger *zap.Logger) CollyCrawler {
	opts := []colly.CollectorOption{
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	}
	if userAgent != "" {
		opts = append(opts, colly.UserAgent(userAgent))
	}
	c := colly.NewCollector(opts...)

	t := &http.Transport{}
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	c.WithTransport(t)

	logger.Debug("InitCollyCrawler", zap.String("user_agent", userAgent))
	return &collyCrawler{
		colly:  c,
		logger: logger,
	}
}

func (c *collyCrawler) Visit(url string) error {
	c.logger.Debug("visit", zap.String("url", url))
	if err := c.colly.Visit(url); err != nil {
		return fmt.Errorf("访问URL失败: %w", err)
	}
	return nil
}

func (c *collyCrawler) VisitFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("解析文件路径失败: %w", err)
	}
	return c.Visit(FileURL(abs))
}

func (c *collyCrawler) Wait() {
	c.colly.Wait()
}

func (c *collyCrawler) OnHTML(selector string, callback func(e *colly.HTMLElement)) {
	c.colly.OnHTML(selector, callback)
}

func (c *collyCrawler) OnScraped(callback func(r *colly.Response)) {
	c.colly.OnScraped(callback)
}

func (c *collyCrawler) OnError(callback func(r *colly.Response, err error)) {
	c.colly.OnError(callback)
}

// FileURL 把绝对路径转换为file:// URL,Windows盘符路径前补一个斜杠
func FileURL(abs string) string {
	p := filepath.ToSlash(abs)
	if len(p) > 0 && p[0] != '/' {
		p = "/" + p
	}
	return "file://" + p
}
