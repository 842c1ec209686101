package pacing

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"go.uber.org/zap"
)

type Tier string

const (
	Short  Tier = "short"
	Medium Tier = "medium"
	Long   Tier = "long"
)

// Stabilizer 能判断页面是否已经稳定的浏览器,chrome.ChromeCrawler满足该接口
type Stabilizer interface {
	WaitStable(ctx context.Context, d time.Duration) error
}

// Pacer 在浏览器操作之间暂停,给页面异步渲染和网络请求留出时间
type Pacer interface {
	Pause(ctx context.Context, tier Tier) error
}

type Durations struct {
	Short       time.Duration
	Medium      time.Duration
	Long        time.Duration
	RandomDelay time.Duration
}

func (d Durations) of(tier Tier) time.Duration {
	switch tier {
	case Short:
		return d.Short
	case Medium:
		return d.Medium
	case Long:
		return d.Long
	default:
		return 0
	}
}

func InitPacer(cfg *config.Config, stabilizer Stabilizer, logger *zap.Logger) Pacer {
	d := Durations{
		Short:       time.Duration(cfg.Pacing.ShortWaitSeconds) * time.Second,
		Medium:      time.Duration(cfg.Pacing.MediumWaitSeconds) * time.Second,
		Long:        time.Duration(cfg.Pacing.LongWaitSeconds) * time.Second,
		RandomDelay: time.Duration(cfg.Pacing.RandomDelaySeconds) * time.Second,
	}
	return NewPacer(cfg.Pacing.Mode, d, stabilizer, logger)
}

// NewPacer stabilizer为nil时退化为固定等待
func NewPacer(mode config.PacingMode, d Durations, stabilizer Stabilizer, logger *zap.Logger) Pacer {
	fixed := &fixedPacer{durations: d}
	if mode == config.PacingStable && stabilizer != nil {
		return &stablePacer{fixed: fixed, stabilizer: stabilizer, logger: logger}
	}
	return fixed
}

type fixedPacer struct {
	durations Durations
}

func (fp *fixedPacer) total(tier Tier) time.Duration {
	total := fp.durations.of(tier)
	if fp.durations.RandomDelay > 0 {
		total += time.Duration(rand.Float64() * float64(fp.durations.RandomDelay))
	}
	return total
}

func (fp *fixedPacer) Pause(ctx context.Context, tier Tier) error {
	return sleep(ctx, fp.total(tier))
}

// stablePacer 等待页面在 tier/4 内不再变化,最多等待 2*tier;判断失败时按固定时长等待
type stablePacer struct {
	fixed      *fixedPacer
	stabilizer Stabilizer
	logger     *zap.Logger
}

func (sp *stablePacer) Pause(ctx context.Context, tier Tier) error {
	d := sp.fixed.durations.of(tier)
	if d <= 0 {
		return ctx.Err()
	}
	window := max(d/4, 100*time.Millisecond)
	waitCtx, cancel := context.WithTimeout(ctx, 2*d)
	defer cancel()

	err := sp.stabilizer.WaitStable(waitCtx, window)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		// 页面一直在变化,已经等够上限
		sp.logger.Debug("page did not settle in time", zap.String("tier", string(tier)), zap.Duration("limit", 2*d))
		return nil
	default:
		sp.logger.Warn("stable wait failed, falling back to fixed delay", zap.String("tier", string(tier)), zap.Error(err))
		return sp.fixed.Pause(ctx, tier)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
