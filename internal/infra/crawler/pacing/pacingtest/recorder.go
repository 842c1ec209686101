// Package pacingtest 测试用的pacing.Pacer,只记录暂停不真正等待
package pacingtest

import (
	"context"

	"github.com/LouYuanbo1/chatharvest/internal/infra/crawler/pacing"
)

type Recorder struct {
	Tiers []pacing.Tier
	// OnPause 每次暂停返回前调用,可用于在运行中途取消上下文
	OnPause func(n int)
}

var _ pacing.Pacer = (*Recorder)(nil)

func (r *Recorder) Pause(ctx context.Context, tier pacing.Tier) error {
	r.Tiers = append(r.Tiers, tier)
	if r.OnPause != nil {
		r.OnPause(len(r.Tiers))
	}
	return ctx.Err()
}
