package chrome

import (
	"context"
	"time"

	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
)

// ChromeCrawler 浏览器自动化能力的抽象,会话服务和采集服务只依赖这个接口
type ChromeCrawler interface {
	InitAndNavigate(ctx context.Context, url string) error
	// FindElement 查找第一个匹配的元素,元素不存在时返回 (nil, false, nil),
	// 只有浏览器通信失败才返回error
	FindElement(ctx context.Context, loc types.Locator) (Element, bool, error)
	// PageHTML 返回整个文档当前渲染后的HTML
	PageHTML(ctx context.Context) (string, error)
	// WaitStable 等待页面在d时长内不再变化
	WaitStable(ctx context.Context, d time.Duration) error
	Close()
}

// Element 页面上已定位到的元素
type Element interface {
	SendKeys(ctx context.Context, text string) error
	Click(ctx context.Context) error
	// Enabled 元素是否可交互(未被disabled)
	Enabled(ctx context.Context) (bool, error)
	// ScrollTop 设置元素的scrollTop,用于触发聊天记录的懒加载
	ScrollTop(ctx context.Context, top int) error
}
