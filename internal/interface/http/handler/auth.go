package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// Signup 用户注册
// @Summary      用户注册
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserInfo}
// @Failure      400 {object} response.Response "参数错误/用户名或邮箱已存在"
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	h.signup(c, false)
}

// AdminSignup 管理员注册(需要ROLE_ADMIN)
// @Summary      管理员注册
// @Tags         认证
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserInfo}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/auth/admin/signup [post]
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	h.signup(c, true)
}

func (h *AuthHandler) signup(c *gin.Context, admin bool) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Admin:    admin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Signin 用户登录
// @Summary      用户登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.SigninRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse}
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Signout 登出,当前Access Token进入黑名单
// @Summary      登出
// @Tags         认证
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/auth/signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	expiresAt := time.Now()
	if claims := middleware.GetClaims(c); claims != nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), middleware.GetAccessToken(c), expiresAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "signed out"})
}
