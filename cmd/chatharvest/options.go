package main

import (
	"fmt"

	"github.com/LouYuanbo1/chatharvest/internal/config"
	"github.com/spf13/cobra"
)

type options struct {
	configPath  string
	logLevel    string
	format      string
	userName    string
	password    string
	url         string
	driver      string
	maxMessages int
	maxCycles   int
	engine      string
	headless    bool
}

// loadConfig 内置配置 -> --config文件 -> 命令行参数,后者覆盖前者;只覆盖显式给出的参数
func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, fmt.Errorf("解析内置配置失败: %w", err)
	}
	if o.configPath != "" {
		if cfg, err = config.LoadFile(cfg, o.configPath); err != nil {
			return nil, err
		}
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("url") {
		cfg.Target.URL = o.url
	}
	if changed("driver") {
		cfg.Target.DriverPath = o.driver
	}
	if changed("engine") {
		cfg.Target.Engine = config.Engine(o.engine)
	}
	if changed("headless") {
		cfg.SetHeadless(o.headless)
	}
	if changed("max-messages") {
		cfg.Harvest.MaxMessages = o.maxMessages
	}
	if changed("max-cycles") {
		cfg.Harvest.MaxCycles = o.maxCycles
	}
	if changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return cfg, nil
}
