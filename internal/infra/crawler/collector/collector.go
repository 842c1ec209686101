package collector

import (
	"github.com/gocolly/colly/v2"
)

// CollyCrawler 对colly.Collector的封装,用于离线解析保存下来的聊天页面
type CollyCrawler interface {
	Visit(url string) error
	// VisitFile 通过file://协议访问本地文件
	VisitFile(path string) error
	Wait()
	OnHTML(selector string, callback func(e *colly.HTMLElement))
	OnScraped(callback func(r *colly.Response))
	OnError(callback func(r *colly.Response, err error))
}
