package dto

// SignupRequest 注册请求
// 长度限制与领域层校验一致,HTTP层先挡掉格式错误
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email,max=50"`
	Password string `json:"password" binding:"required,min=6,max=40"`
}

// SigninRequest 登录请求
type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
