package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/pacing"
	"github.com/LouYuanbo1/chatharvest/internal/logging"
	"github.com/LouYuanbo1/chatharvest/internal/report"
	"github.com/LouYuanbo1/chatharvest/internal/service/harvest"
	"github.com/LouYuanbo1/chatharvest/internal/service/session"
	"github.com/LouYuanbo1/chatharvest/param"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flags  options
	appcfg *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chatharvest",
	Short: "Log in to the chat site and capture the rendered conversation",
	Long: `chatharvest opens the chat site in a real browser, logs in with the given
account, dismisses promotional overlays and scrolls the conversation upward
until no new messages appear. The captured conversation is printed to stdout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &flags)
		if err != nil {
			return err
		}
		appcfg = cfg
		logger, err = logging.InitLogger(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runHarvest,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "JSON or YAML file replacing the built-in configuration")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.format, "format", string(report.FormatJSON), "output format: json or table")

	f := rootCmd.Flags()
	f.StringVarP(&flags.userName, "user-name", "u", "", "user name (email) for the chat site")
	f.StringVarP(&flags.password, "password", "p", "", "password for the chat site")
	f.StringVar(&flags.url, "url", "", "login url (default from configuration)")
	f.StringVar(&flags.driver, "driver", ".", "browser binary or a directory containing one")
	f.IntVar(&flags.maxMessages, "max-messages", 0, "maximum number of chat messages to capture, timestamps not counted (0 = all)")
	f.IntVar(&flags.maxCycles, "max-cycles", 0, "maximum number of scroll passes (0 = until no new messages)")
	f.StringVar(&flags.engine, "engine", "", "browser engine: chromedp or rod")
	f.BoolVar(&flags.headless, "headless", false, "run the browser without a window")
	_ = rootCmd.MarkFlagRequired("user-name")
	_ = rootCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(extractCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	crawler, err := chrome.InitCrawler(ctx, appcfg, logger)
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}
	defer crawler.Close()

	pacer := pacing.InitPacer(appcfg, crawler, logger)
	sessionService := session.InitSessionService(crawler, pacer, appcfg, logger)
	harvestService := harvest.InitHarvestService(crawler, pacer, appcfg, logger)

	if err := sessionService.Open(ctx); err != nil {
		return err
	}
	loginReport, err := sessionService.Login(ctx, &param.Credentials{
		UserName: flags.userName,
		Password: flags.password,
	})
	if err != nil {
		return fmt.Errorf("登录失败: %w", err)
	}
	if !loginReport.Complete() {
		logger.Warn("login incomplete, continuing", zap.Strings("skipped", loginReport.Skipped))
	}

	conv, err := harvestService.Harvest(ctx, &param.Harvest{
		MaxMessages: flags.maxMessages,
		MaxCycles:   flags.maxCycles,
	})
	return writeResult(cmd.OutOrStdout(), format, conv, err)
}

// writeResult 采集中断但已有记录时仍然输出部分结果
func writeResult(out io.Writer, format report.Format, conv *model.Conversation, harvestErr error) error {
	if harvestErr != nil {
		if conv == nil || conv.Len() == 0 {
			return fmt.Errorf("采集失败: %w", harvestErr)
		}
		logger.Error("harvest interrupted, printing partial conversation", zap.Error(harvestErr), zap.Int("total", conv.Len()))
	}
	fmt.Fprintln(out, "Complete")
	return report.Write(out, format, conv)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
