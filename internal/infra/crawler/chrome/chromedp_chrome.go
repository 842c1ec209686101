package chrome

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

type chromedpCrawler struct {
	allocCtx      context.Context
	allocCtxFuc   context.CancelFunc
	pageCtx       context.Context
	pageCtxFuc    context.CancelFunc
	timeoutCtxFuc context.CancelFunc
}

// InitChromedpCrawler 启动一个由chromedp控制的浏览器, browserBin为空时由chromedp自行查找
func InitChromedpCrawler(ctx context.Context, cfg *config.Config, browserBin string) ChromeCrawler {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
	)
	if cfg.Chromedp.DisableBlinkFeatures != "" {
		opts = append(opts, chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures))
	}
	if cfg.Chromedp.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.Chromedp.UserDataDir))
	}
	if cfg.Chromedp.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Chromedp.UserAgent))
	}
	if browserBin != "" {
		opts = append(opts, chromedp.ExecPath(browserBin))
	}

	// life_time为0时浏览器的生命周期不设上限
	var timeoutCtx context.Context
	var cancelTimeout context.CancelFunc
	if cfg.Chromedp.LifeTime > 0 {
		timeoutCtx, cancelTimeout = context.WithTimeout(ctx, time.Duration(cfg.Chromedp.LifeTime)*time.Second)
	} else {
		timeoutCtx, cancelTimeout = context.WithCancel(ctx)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)

	return &chromedpCrawler{
		allocCtx:      allocCtx,
		allocCtxFuc:   cancelAlloc,
		pageCtx:       pageCtx,
		pageCtxFuc:    cancelPage,
		timeoutCtxFuc: cancelTimeout,
	}
}

func (cc *chromedpCrawler) Close() {
	cc.pageCtxFuc()
	cc.allocCtxFuc()
	cc.timeoutCtxFuc()
}

// run 在页面context上执行动作,调用方的ctx取消时只中断本次动作,不关闭标签页
func (cc *chromedpCrawler) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(cc.pageCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (cc *chromedpCrawler) InitAndNavigate(ctx context.Context, url string) error {
	if err := cc.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	return nil
}

func (cc *chromedpCrawler) FindElement(ctx context.Context, loc types.Locator) (Element, bool, error) {
	var by chromedp.QueryOption
	selector, ok := loc.CSS()
	switch {
	case ok:
		by = chromedp.ByQueryAll
	case loc.By == types.ByXPath:
		selector, by = loc.Value, chromedp.BySearch
	default:
		return nil, false, fmt.Errorf("%w: %q", types.ErrUnknownStrategy, loc.By)
	}

	var nodes []*cdp.Node
	// AtLeast(0): 元素不存在时立即返回而不是一直等待
	if err := cc.run(ctx, chromedp.Nodes(selector, &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, false, fmt.Errorf("查找元素失败 %s: %w", loc, err)
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return &chromedpElement{cc: cc, node: nodes[0]}, true, nil
}

func (cc *chromedpCrawler) PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := cc.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return html, nil
}

// WaitStable chromedp没有现成的稳定等待,这里轮询页面HTML,连续d时长不变视为稳定
func (cc *chromedpCrawler) WaitStable(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	interval := max(d/4, 100*time.Millisecond)
	last, err := cc.PageHTML(ctx)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var stableFor time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		html, err := cc.PageHTML(ctx)
		if err != nil {
			return err
		}
		if html != last {
			last = html
			stableFor = 0
			continue
		}
		stableFor += interval
		if stableFor >= d {
			return nil
		}
	}
}

type chromedpElement struct {
	cc   *chromedpCrawler
	node *cdp.Node
}

func (e *chromedpElement) nodeIDs() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromedpElement) SendKeys(ctx context.Context, text string) error {
	return e.cc.run(ctx, chromedp.SendKeys(e.nodeIDs(), text, chromedp.ByNodeID))
}

func (e *chromedpElement) Click(ctx context.Context) error {
	return e.cc.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *chromedpElement) Enabled(ctx context.Context) (bool, error) {
	if _, disabled := e.node.Attribute("disabled"); disabled {
		return false, nil
	}
	return e.node.AttributeValue("aria-disabled") != "true", nil
}

func (e *chromedpElement) ScrollTop(ctx context.Context, top int) error {
	return e.cc.run(ctx, chromedp.SetJavascriptAttribute(e.nodeIDs(), "scrollTop", strconv.Itoa(top), chromedp.ByNodeID))
}
