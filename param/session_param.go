package param

// Credentials 登录表单需要填写的账号信息
type Credentials struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}
