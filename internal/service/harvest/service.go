package harvest

import (
	"context"

	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/LouYuanbo1/chatharvest/param"
)

// HarvestService 反复读取聊天页面并向上滚动,直到一轮扫描不再产生新记录
type HarvestService interface {
	// Harvest 被取消时返回已采集的部分会话和上下文错误
	Harvest(ctx context.Context, opts *param.Harvest) (*model.Conversation, error)
}

// ExtractService 离线解析保存下来的聊天页面
type ExtractService interface {
	Extract(ctx context.Context, path string) (*model.Conversation, error)
}
