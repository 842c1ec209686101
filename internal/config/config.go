package config

import (
	"errors"

	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
)

type Engine string

const (
	EngineChromedp Engine = "chromedp"
	EngineRod      Engine = "rod"
)

var ErrUnknownEngine = errors.New("未知的浏览器引擎")

type PacingMode string

const (
	// PacingFixed 每次等待固定时长(可叠加随机延迟)
	PacingFixed PacingMode = "fixed"
	// PacingStable 轮询页面直到稳定,超时则按固定时长兜底
	PacingStable PacingMode = "stable"
)

type Config struct {
	Target struct {
		URL        string `json:"url" yaml:"url"`
		Engine     Engine `json:"engine" yaml:"engine"`
		DriverPath string `json:"driver_path" yaml:"driver_path"`
	} `json:"target" yaml:"target"`

	Rod struct {
		UserDataDir          string `json:"user_data_dir" yaml:"user_data_dir"`
		Headless             bool   `json:"headless" yaml:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features" yaml:"disable_blink_features"`
		Incognito            bool   `json:"incognito" yaml:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage" yaml:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox" yaml:"no_sandbox"`
		UserAgent            string `json:"user_agent" yaml:"user_agent"`
		Leakless             bool   `json:"leakless" yaml:"leakless"`
		Stealth              bool   `json:"stealth" yaml:"stealth"`
		Trace                bool   `json:"trace" yaml:"trace"`
	} `json:"rod" yaml:"rod"`

	Chromedp struct {
		LifeTime             int    `json:"life_time" yaml:"life_time"`
		UserDataDir          string `json:"user_data_dir" yaml:"user_data_dir"`
		Headless             bool   `json:"headless" yaml:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features" yaml:"disable_blink_features"`
		Incognito            bool   `json:"incognito" yaml:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage" yaml:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox" yaml:"no_sandbox"`
		UserAgent            string `json:"user_agent" yaml:"user_agent"`
	} `json:"chromedp" yaml:"chromedp"`

	Pacing struct {
		Mode               PacingMode `json:"mode" yaml:"mode"`
		ShortWaitSeconds   int        `json:"short_wait_seconds" yaml:"short_wait_seconds"`
		MediumWaitSeconds  int        `json:"medium_wait_seconds" yaml:"medium_wait_seconds"`
		LongWaitSeconds    int        `json:"long_wait_seconds" yaml:"long_wait_seconds"`
		RandomDelaySeconds int        `json:"random_delay_seconds" yaml:"random_delay_seconds"`
	} `json:"pacing" yaml:"pacing"`

	Harvest struct {
		CellSelector string `json:"cell_selector" yaml:"cell_selector"`
		ScrollTop    int    `json:"scroll_top" yaml:"scroll_top"`
		MaxMessages  int    `json:"max_messages" yaml:"max_messages"`
		MaxCycles    int    `json:"max_cycles" yaml:"max_cycles"`
		Markers      struct {
			Timestamp         string `json:"timestamp" yaml:"timestamp"`
			Message           string `json:"message" yaml:"message"`
			Rating            string `json:"rating" yaml:"rating"`
			RatingBoilerplate string `json:"rating_boilerplate" yaml:"rating_boilerplate"`
		} `json:"markers" yaml:"markers"`
	} `json:"harvest" yaml:"harvest"`

	Locators types.LocatorTable `json:"locators" yaml:"locators"`

	Log struct {
		Level       string `json:"level" yaml:"level"`
		Development bool   `json:"development" yaml:"development"`
	} `json:"log" yaml:"log"`
}

func (c *Config) Headless() bool {
	if c.Target.Engine == EngineRod {
		return c.Rod.Headless
	}
	return c.Chromedp.Headless
}

func (c *Config) SetHeadless(headless bool) {
	c.Rod.Headless = headless
	c.Chromedp.Headless = headless
}
