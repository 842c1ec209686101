package config

import (
	_ "embed"
)

// 默认配置,站点DOM变化时需要同步更新其中的定位器
//
//go:embed appconfig/appconfig.json
var appConfig []byte

// Default 解析内嵌的默认配置
func Default() (*Config, error) {
	return ParseConfig(appConfig)
}
