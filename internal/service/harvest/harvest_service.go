package harvest

import (
	"context"
	"fmt"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/pacing"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
	"github.com/LouYuanbo1/chatharvest/param"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type harvestService struct {
	chromeCrawler chrome.ChromeCrawler
	pacer         pacing.Pacer
	scanner       Scanner
	chatBody      types.Locator
	scrollTop     int
	maxCycles     int
	logger        *zap.Logger
}

func InitHarvestService(
	chromeCrawler chrome.ChromeCrawler,
	pacer pacing.Pacer,
	cfg *config.Config,
	logger *zap.Logger,
) HarvestService {
	logger = logger.Named("harvest")
	return &harvestService{
		chromeCrawler: chromeCrawler,
		pacer:         pacer,
		scanner:       NewScanner(cfg, logger),
		chatBody:      cfg.Locators.ChatBody,
		scrollTop:     cfg.Harvest.ScrollTop,
		maxCycles:     cfg.Harvest.MaxCycles,
		logger:        logger,
	}
}

func (hs *harvestService) Harvest(ctx context.Context, opts *param.Harvest) (*model.Conversation, error) {
	scanner := hs.scanner
	maxCycles := hs.maxCycles
	if opts != nil {
		if opts.MaxMessages > 0 {
			scanner = scanner.WithLimit(opts.MaxMessages)
		}
		if opts.MaxCycles > 0 {
			maxCycles = opts.MaxCycles
		}
	}

	logger := hs.logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("harvest started", zap.Int("max_messages", scanner.Limit()), zap.Int("max_cycles", maxCycles))

	conv := model.NewConversation()
	for cycle := 0; ; cycle++ {
		before := conv.Len()

		html, err := hs.chromeCrawler.PageHTML(ctx)
		if err != nil {
			return conv, fmt.Errorf("第 %d 轮读取页面失败: %w", cycle+1, err)
		}
		added, err := scanner.ScanHTML(html, cycle, conv)
		if err != nil {
			return conv, fmt.Errorf("第 %d 轮扫描失败: %w", cycle+1, err)
		}
		logger.Info("pass complete", zap.Int("cycle", cycle), zap.Int("added", added), zap.Int("total", conv.Len()))

		if scanner.reachedLimit(conv) {
			logger.Info("message cap reached", zap.Int("total", conv.Len()))
			return conv, nil
		}
		if maxCycles > 0 && cycle+1 >= maxCycles {
			logger.Info("cycle limit reached", zap.Int("cycles", cycle+1))
			return conv, nil
		}

		// 等待页面渲染,向上滚动触发加载更早的消息,再等待加载完成
		if err := hs.pacer.Pause(ctx, pacing.Long); err != nil {
			return conv, fmt.Errorf("等待被中断: %w", err)
		}
		if err := hs.scroll(ctx, logger); err != nil {
			return conv, err
		}
		if err := hs.pacer.Pause(ctx, pacing.Long); err != nil {
			return conv, fmt.Errorf("等待被中断: %w", err)
		}

		if conv.Len() == before {
			logger.Info("harvest finished", zap.Int("cycles", cycle+1), zap.Int("total", conv.Len()))
			return conv, nil
		}
	}
}

// scroll 聊天区域每次重新定位,找不到时只记录日志
func (hs *harvestService) scroll(ctx context.Context, logger *zap.Logger) error {
	el, ok, err := hs.chromeCrawler.FindElement(ctx, hs.chatBody)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("failed to locate chat body", zap.Error(err))
		return nil
	}
	if !ok {
		logger.Error("chat body not found, skipping scroll", zap.Stringer("locator", hs.chatBody))
		return nil
	}
	if err := el.ScrollTop(ctx, hs.scrollTop); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("scroll failed", zap.Error(err))
	}
	return nil
}
