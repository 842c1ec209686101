package param

// Harvest 单次采集的选项,零值表示沿用配置文件中的设置
type Harvest struct {
	// MaxMessages 聊天消息条数上限,达到后停止采集,时间戳不计入
	MaxMessages int `json:"max_messages"`
	// MaxCycles 最多执行的扫描轮数
	MaxCycles int `json:"max_cycles"`
}
