package chrome

import (
	"context"
	"fmt"
	"time"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodCrawler struct {
	browser *rod.Browser
	page    *rod.Page
}

// InitRodCrawler 启动浏览器并打开一个空白页面, browserBin为空时由launcher自动查找或下载
func InitRodCrawler(cfg *config.Config, browserBin string) (ChromeCrawler, error) {
	l := launcher.New().
		Headless(cfg.Rod.Headless).
		Leakless(cfg.Rod.Leakless).
		NoSandbox(cfg.Rod.NoSandbox)
	if browserBin != "" {
		l = l.Bin(browserBin)
	}
	if cfg.Rod.UserDataDir != "" {
		l = l.UserDataDir(cfg.Rod.UserDataDir)
	}
	if cfg.Rod.DisableBlinkFeatures != "" {
		l = l.Set("disable-blink-features", cfg.Rod.DisableBlinkFeatures)
	}
	if cfg.Rod.Incognito {
		l = l.Set("incognito")
	}
	if cfg.Rod.DisableDevShmUsage {
		l = l.Set("disable-dev-shm-usage")
	}
	if cfg.Rod.UserAgent != "" {
		l = l.Set("user-agent", cfg.Rod.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Trace(cfg.Rod.Trace)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	var page *rod.Page
	if cfg.Rod.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("获取页面失败: %w", err)
	}

	return &rodCrawler{
		browser: browser,
		page:    page,
	}, nil
}

func (rc *rodCrawler) Close() {
	_ = rc.browser.Close()
}

func (rc *rodCrawler) InitAndNavigate(ctx context.Context, url string) error {
	page := rc.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("等待页面加载失败: %w", err)
	}
	return nil
}

func (rc *rodCrawler) FindElement(ctx context.Context, loc types.Locator) (Element, bool, error) {
	page := rc.page.Context(ctx)

	var elements rod.Elements
	var err error
	if selector, ok := loc.CSS(); ok {
		elements, err = page.Elements(selector)
	} else if loc.By == types.ByXPath {
		elements, err = page.ElementsX(loc.Value)
	} else {
		return nil, false, fmt.Errorf("%w: %q", types.ErrUnknownStrategy, loc.By)
	}
	if err != nil {
		return nil, false, fmt.Errorf("查找元素失败 %s: %w", loc, err)
	}
	if elements.Empty() {
		return nil, false, nil
	}
	return &rodElement{el: elements.First()}, true, nil
}

func (rc *rodCrawler) PageHTML(ctx context.Context) (string, error) {
	html, err := rc.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return html, nil
}

func (rc *rodCrawler) WaitStable(ctx context.Context, d time.Duration) error {
	return rc.page.Context(ctx).WaitStable(d)
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) SendKeys(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Enabled(ctx context.Context) (bool, error) {
	disabled, err := e.el.Context(ctx).Disabled()
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

func (e *rodElement) ScrollTop(ctx context.Context, top int) error {
	_, err := e.el.Context(ctx).Eval(`(top) => { this.scrollTop = top }`, top)
	return err
}
