package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/pacing"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
	"github.com/LouYuanbo1/chatharvest/param"
	"go.uber.org/zap"
)

const (
	StepLoginInput     = "login_input"
	StepLoginAccept    = "login_accept"
	StepPasswordInput  = "password_input"
	StepPasswordAccept = "password_accept"
)

var ErrNoCredentials = errors.New("缺少登录账号信息")

type sessionService struct {
	chromeCrawler chrome.ChromeCrawler
	pacer         pacing.Pacer
	url           string
	locators      types.LocatorTable
	logger        *zap.Logger
}

func InitSessionService(
	chromeCrawler chrome.ChromeCrawler,
	pacer pacing.Pacer,
	cfg *config.Config,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		chromeCrawler: chromeCrawler,
		pacer:         pacer,
		url:           cfg.Target.URL,
		locators:      cfg.Locators,
		logger:        logger.Named("session"),
	}
}

func (ss *sessionService) Open(ctx context.Context) error {
	if ss.url == "" {
		ss.logger.Error("no target url configured, skipping navigation")
		return nil
	}
	ss.logger.Info("opening login page", zap.String("url", ss.url))
	if err := ss.chromeCrawler.InitAndNavigate(ctx, ss.url); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	return nil
}

type loginStep struct {
	name  string
	loc   types.Locator
	act   func(ctx context.Context, el chrome.Element) error
	pause pacing.Tier
}

func typeText(text string) func(ctx context.Context, el chrome.Element) error {
	return func(ctx context.Context, el chrome.Element) error {
		return el.SendKeys(ctx, text)
	}
}

func click(ctx context.Context, el chrome.Element) error {
	return el.Click(ctx)
}

// Login 依次填写用户名、确认、填写密码、确认,找不到的元素只记录日志并跳过该步骤
func (ss *sessionService) Login(ctx context.Context, creds *param.Credentials) (*LoginReport, error) {
	if creds == nil {
		return nil, ErrNoCredentials
	}
	steps := []loginStep{
		{StepLoginInput, ss.locators.LoginInput, typeText(creds.UserName), pacing.Medium},
		{StepLoginAccept, ss.locators.LoginAccept, click, pacing.Medium},
		{StepPasswordInput, ss.locators.PasswordInput, typeText(creds.Password), pacing.Short},
		{StepPasswordAccept, ss.locators.PasswordAccept, click, pacing.Long},
	}

	report := &LoginReport{}
	for _, step := range steps {
		done, err := ss.runStep(ctx, step)
		if err != nil {
			return report, err
		}
		if done {
			report.Performed = append(report.Performed, step.name)
		} else {
			report.Skipped = append(report.Skipped, step.name)
		}
		// 无论元素是否存在都要等待,后续步骤依赖页面跳转
		if err := ss.pacer.Pause(ctx, step.pause); err != nil {
			return report, fmt.Errorf("等待被中断: %w", err)
		}
	}

	dismissed, err := ss.CleanUp(ctx)
	report.Dismissed = dismissed
	if err != nil {
		return report, err
	}
	ss.logger.Info("login finished",
		zap.Strings("performed", report.Performed),
		zap.Strings("skipped", report.Skipped),
		zap.Int("dismissed", report.Dismissed),
	)
	return report, nil
}

// runStep 只有上下文被取消时才返回error,其余失败记录日志后视为跳过
func (ss *sessionService) runStep(ctx context.Context, step loginStep) (bool, error) {
	logger := ss.logger.With(zap.String("step", step.name), zap.Stringer("locator", step.loc))
	el, ok, err := ss.chromeCrawler.FindElement(ctx, step.loc)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		logger.Error("failed to locate element", zap.Error(err))
		return false, nil
	}
	if !ok {
		logger.Error("element not found")
		return false, nil
	}
	if err := step.act(ctx, el); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		logger.Error("element action failed", zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (ss *sessionService) CleanUp(ctx context.Context, names ...string) (int, error) {
	if len(names) == 0 {
		names = ss.locators.WidgetNames()
	}

	count := 0
	for _, name := range names {
		loc, ok := ss.locators.Widget(name)
		if !ok {
			ss.logger.Warn("unknown widget", zap.String("widget", name))
			continue
		}
		el, found, err := ss.chromeCrawler.FindElement(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return count, ctx.Err()
			}
			ss.logger.Error("failed to locate widget", zap.String("widget", name), zap.Error(err))
			continue
		}
		if !found {
			ss.logger.Debug("widget not present", zap.String("widget", name))
			continue
		}
		enabled, err := el.Enabled(ctx)
		if err != nil || !enabled {
			ss.logger.Debug("widget not enabled", zap.String("widget", name), zap.Error(err))
			continue
		}
		if err := el.Click(ctx); err != nil {
			if ctx.Err() != nil {
				return count, ctx.Err()
			}
			ss.logger.Error("failed to click widget", zap.String("widget", name), zap.Error(err))
			continue
		}
		count++
		ss.logger.Info("widget dismissed", zap.String("widget", name))
		if err := ss.pacer.Pause(ctx, pacing.Short); err != nil {
			return count, fmt.Errorf("等待被中断: %w", err)
		}
	}
	return count, nil
}
