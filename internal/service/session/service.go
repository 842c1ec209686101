package session

import (
	"context"

	"github.com/LouYuanbo1/chatharvest/param"
)

// SessionService 打开登录页、提交账号密码并关闭弹窗
type SessionService interface {
	Open(ctx context.Context) error
	Login(ctx context.Context, creds *param.Credentials) (*LoginReport, error)
	// CleanUp 点击存在且可用的弹窗按钮,names为空时处理全部弹窗,返回点击的个数
	CleanUp(ctx context.Context, names ...string) (int, error)
}

// LoginReport 登录各步骤的执行情况
type LoginReport struct {
	Performed []string `json:"performed"`
	Skipped   []string `json:"skipped"`
	Dismissed int      `json:"dismissed"`
}

// Complete 所有登录步骤都找到了对应元素
func (r *LoginReport) Complete() bool {
	return len(r.Skipped) == 0
}
