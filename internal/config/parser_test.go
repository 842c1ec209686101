package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://my.replika.ai/login", cfg.Target.URL)
	assert.Equal(t, EngineChromedp, cfg.Target.Engine)
	assert.Equal(t, 1, cfg.Pacing.ShortWaitSeconds)
	assert.Equal(t, 2, cfg.Pacing.MediumWaitSeconds)
	assert.Equal(t, 5, cfg.Pacing.LongWaitSeconds)
	assert.Equal(t, DefaultCellSelector, cfg.Harvest.CellSelector)
	assert.Equal(t, 1, cfg.Harvest.ScrollTop)
	assert.Equal(t, types.Locator{By: types.ByID, Value: "emailOrPhone"}, cfg.Locators.LoginInput)
	assert.Equal(t, []string{"claim_button", "close_button", "coins_button", "gpr_accept"}, cfg.Locators.WidgetNames())
}

func TestParseConfigFillsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"target": {"url": "https://example.test/login"}}`))
	require.NoError(t, err)

	assert.Equal(t, EngineChromedp, cfg.Target.Engine)
	assert.Equal(t, PacingFixed, cfg.Pacing.Mode)
	assert.Equal(t, DefaultMessageMarker, cfg.Harvest.Markers.Message)
	assert.Equal(t, DefaultRatingBoilerplate, cfg.Harvest.Markers.RatingBoilerplate)
	assert.Equal(t, "info", cfg.Log.Level)

	// 缺少定位器属于配置错误
	assert.Error(t, cfg.Validate())
}

func TestParseConfigInvalidJSON(t *testing.T) {
	_, err := ParseConfig([]byte(`{"target":`))
	require.Error(t, err)
}

func TestLoadFileOverlaysYAML(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	content := `
target:
  engine: rod
pacing:
  mode: stable
  long_wait_seconds: 3
locators:
  widgets:
    - name: consent
      by: css
      value: button.consent
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(base, path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, EngineRod, cfg.Target.Engine)
	assert.Equal(t, PacingStable, cfg.Pacing.Mode)
	assert.Equal(t, 3, cfg.Pacing.LongWaitSeconds)
	// 未覆盖的字段保持默认值
	assert.Equal(t, 2, cfg.Pacing.MediumWaitSeconds)
	assert.Equal(t, "https://my.replika.ai/login", cfg.Target.URL)
	assert.Equal(t, []string{"consent"}, cfg.Locators.WidgetNames())
	loc, ok := cfg.Locators.Widget("consent")
	require.True(t, ok)
	assert.Equal(t, types.ByCSS, loc.By)

	// base 不受影响
	assert.Len(t, base.Locators.Widgets, 4)
	assert.Equal(t, EngineChromedp, base.Target.Engine)
}

func TestLoadFileJSONAndErrors(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "override.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"harvest": {"max_messages": 50}}`), 0o644))
	cfg, err := LoadFile(base, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Harvest.MaxMessages)

	_, err = LoadFile(base, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	tomlPath := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`x = 1`), 0o644))
	_, err = LoadFile(base, tomlPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Target.Engine = "selenium"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownEngine)

	cfg.Target.Engine = EngineRod
	cfg.Harvest.MaxCycles = -1
	assert.Error(t, cfg.Validate())

	cfg.Harvest.MaxCycles = 0
	cfg.Target.URL = ""
	assert.NoError(t, cfg.Validate())
}

func TestHeadless(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.SetHeadless(true)
	assert.True(t, cfg.Headless())
	cfg.Target.Engine = EngineRod
	assert.True(t, cfg.Headless())
}

func TestLoadFileReplacesWidgets(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "widgets.json", `{"locators":{"widgets":[{"name":"promo","value":".promo-close"}]}}`},
		{"yaml", "widgets.yaml", "locators:\n  widgets:\n    - name: promo\n      value: .promo-close\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			cfg, err := LoadFile(base, path)
			require.NoError(t, err)
			require.Len(t, cfg.Locators.Widgets, 1)
			// 缺少by的元素不能继承base中第一个弹窗的xpath策略
			assert.Equal(t, types.Strategy(""), cfg.Locators.Widgets[0].By)
			assert.ErrorIs(t, cfg.Validate(), types.ErrUnknownStrategy)
		})
	}

	assert.Len(t, base.Locators.Widgets, 4)
}

func TestLoadFileKeepsWidgetsWhenAbsent(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pacing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pacing":{"long_wait_seconds":1}}`), 0o644))

	cfg, err := LoadFile(base, path)
	require.NoError(t, err)
	assert.Equal(t, base.Locators.Widgets, cfg.Locators.Widgets)
}
