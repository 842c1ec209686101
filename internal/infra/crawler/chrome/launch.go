package chrome

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"go.uber.org/zap"
)

// 在driver目录下按顺序查找的浏览器可执行文件名
var browserNames = []string{
	"chrome",
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome.exe",
	"msedge.exe",
}

// ResolveBrowserBin 把命令行给出的driver路径解析为浏览器可执行文件.
// path可以是可执行文件本身,也可以是包含浏览器的目录;找不到时返回false,由引擎自行查找浏览器
func ResolveBrowserBin(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		if IsWebDriver(path) {
			return "", false
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", false
		}
		return abs, true
	}
	for _, name := range browserNames {
		candidate := filepath.Join(path, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			return abs, true
		}
	}
	return "", false
}

// IsWebDriver chromedriver是WebDriver服务而不是浏览器,不能当作浏览器启动
func IsWebDriver(path string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(path)), "chromedriver")
}

// InitCrawler 按配置选择浏览器引擎
func InitCrawler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ChromeCrawler, error) {
	bin, ok := ResolveBrowserBin(cfg.Target.DriverPath)
	if ok {
		logger.Info("using browser binary", zap.String("bin", bin))
	} else if IsWebDriver(cfg.Target.DriverPath) {
		logger.Warn("driver path points at chromedriver, not a browser; engine will locate one",
			zap.String("driver_path", cfg.Target.DriverPath))
	} else {
		logger.Debug("no browser binary under driver path, engine will locate one",
			zap.String("driver_path", cfg.Target.DriverPath))
	}

	switch cfg.Target.Engine {
	case config.EngineRod:
		return InitRodCrawler(cfg, bin)
	case config.EngineChromedp:
		return InitChromedpCrawler(ctx, cfg, bin), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, cfg.Target.Engine)
	}
}
