package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCellSelector      = `div[role="gridcell"]`
	DefaultTimestampMarker   = "MessageGroup__Timestamp"
	DefaultMessageMarker     = "BubbleText__BubbleTextContent"
	DefaultRatingMarker      = "MessageHover__Hover"
	DefaultRatingBoilerplate = "thumb upthumb downshow more actions"
)

func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	err := json.Unmarshal(byteConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile 在base配置之上叠加配置文件(.json/.yaml/.yml),文件中未出现的字段保持base的值.
// widgets列表整体替换,不与base中的元素逐个合并
func LoadFile(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	cfg := base.clone()
	// encoding/json会把数组元素解码进已有的切片元素里,缺省字段会继承base的值
	cfg.Locators.Widgets = nil
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json", "":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("不支持的配置文件格式 %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if cfg.Locators.Widgets == nil {
		cfg.Locators.Widgets = slices.Clone(base.Locators.Widgets)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Locators.Widgets = slices.Clone(c.Locators.Widgets)
	return &cp
}

func (c *Config) normalize() error {
	if c.Target.Engine == "" {
		c.Target.Engine = EngineChromedp
	}
	if c.Pacing.Mode == "" {
		c.Pacing.Mode = PacingFixed
	}
	if c.Harvest.CellSelector == "" {
		c.Harvest.CellSelector = DefaultCellSelector
	}
	m := &c.Harvest.Markers
	if m.Timestamp == "" {
		m.Timestamp = DefaultTimestampMarker
	}
	if m.Message == "" {
		m.Message = DefaultMessageMarker
	}
	if m.Rating == "" {
		m.Rating = DefaultRatingMarker
	}
	if m.RatingBoilerplate == "" {
		m.RatingBoilerplate = DefaultRatingBoilerplate
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	for _, dir := range []*string{&c.Chromedp.UserDataDir, &c.Rod.UserDataDir} {
		if *dir == "" {
			continue
		}
		absPath, err := filepath.Abs(*dir)
		if err != nil {
			return err
		}
		*dir = absPath
	}
	return nil
}

// Validate 检查会导致运行失败的配置错误;缺少登录URL不在此列,由会话服务记录日志后继续
func (c *Config) Validate() error {
	var errs []error
	switch c.Target.Engine {
	case EngineChromedp, EngineRod:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEngine, c.Target.Engine))
	}
	switch c.Pacing.Mode {
	case PacingFixed, PacingStable:
	default:
		errs = append(errs, fmt.Errorf("未知的等待模式 %q", c.Pacing.Mode))
	}
	if c.Pacing.ShortWaitSeconds < 0 || c.Pacing.MediumWaitSeconds < 0 ||
		c.Pacing.LongWaitSeconds < 0 || c.Pacing.RandomDelaySeconds < 0 {
		errs = append(errs, errors.New("等待时长不能为负数"))
	}
	if c.Harvest.MaxMessages < 0 || c.Harvest.MaxCycles < 0 {
		errs = append(errs, errors.New("采集上限不能为负数"))
	}
	if err := c.Locators.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
