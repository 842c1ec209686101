// Package chrometest 测试用的内存版chrome.ChromeCrawler
package chrometest

import (
	"context"
	"time"

	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
)

// Crawler 按脚本返回页面快照和元素.
// PageHTML 依次返回Pages,读完后一直返回最后一页
type Crawler struct {
	Pages       []string
	NavigateErr error
	FindErr     error

	Navigated  []string
	PageReads  int
	Stabilized int
	Closed     bool

	elements map[types.Locator]*Element
}

var _ chrome.ChromeCrawler = (*Crawler)(nil)

func NewCrawler(pages ...string) *Crawler {
	return &Crawler{
		Pages:    pages,
		elements: make(map[types.Locator]*Element),
	}
}

func (c *Crawler) AddElement(loc types.Locator, el *Element) *Element {
	el.crawler = c
	el.loc = loc
	c.elements[loc] = el
	return el
}

func (c *Crawler) Remove(loc types.Locator) {
	delete(c.elements, loc)
}

func (c *Crawler) InitAndNavigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.NavigateErr != nil {
		return c.NavigateErr
	}
	c.Navigated = append(c.Navigated, url)
	return nil
}

func (c *Crawler) FindElement(ctx context.Context, loc types.Locator) (chrome.Element, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if c.FindErr != nil {
		return nil, false, c.FindErr
	}
	el, ok := c.elements[loc]
	if !ok {
		return nil, false, nil
	}
	return el, true, nil
}

func (c *Crawler) PageHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.Pages) == 0 {
		return "<html><body></body></html>", nil
	}
	i := min(c.PageReads, len(c.Pages)-1)
	c.PageReads++
	return c.Pages[i], nil
}

func (c *Crawler) WaitStable(ctx context.Context, d time.Duration) error {
	c.Stabilized++
	return ctx.Err()
}

func (c *Crawler) Close() {
	c.Closed = true
}

// Element 记录对它的每一次操作
type Element struct {
	Disabled bool
	// DismissOnClick 点击后从页面移除,模拟弹窗关闭
	DismissOnClick bool
	ClickErr       error
	ScrollErr      error

	Keys    []string
	Clicks  int
	Scrolls []int

	crawler *Crawler
	loc     types.Locator
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	e.Keys = append(e.Keys, text)
	return ctx.Err()
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	if e.DismissOnClick && e.crawler != nil {
		e.crawler.Remove(e.loc)
	}
	return ctx.Err()
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	return !e.Disabled, ctx.Err()
}

func (e *Element) ScrollTop(ctx context.Context, top int) error {
	if e.ScrollErr != nil {
		return e.ScrollErr
	}
	e.Scrolls = append(e.Scrolls, top)
	return ctx.Err()
}
