package user

import (
	"unicode"

	"activity-enroll-system/internal/global/database"
	"activity-enroll-system/internal/global/jwt"
	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
	"activity-enroll-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// User 定义登录和注册请求的结构体
type User struct {
	Username string `json:"username" binding:"required"` // 用户名，唯一标识用户
	Password string `json:"password" binding:"required"` // 密码，登录时验证，注册时加密
	NickName string `json:"nick_name"`                   // 昵称，注册时可选，默认取用户名
}

// Register 处理用户注册请求
func Register(c *gin.Context) {
	var req User
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		log.Warn("密码强度验证失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 查询用户名是否已被占用
	var existing model.User
	err := database.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		log.Warn("用户名已存在", "username", req.Username)
		response.Fail(c, response.ErrAlreadyExists.WithTips("用户名已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	nickName := req.NickName
	if nickName == "" {
		nickName = req.Username
	}
	user := model.User{
		Username: req.Username,
		Password: tools.PasswordEncrypt(req.Password),
		NickName: nickName,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Error("创建用户失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "username", user.Username)
	response.Success(c)
}

// Login 处理用户登录请求，验证通过后签发访问令牌
func Login(c *gin.Context) {
	var req User
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	err := database.DB.Where("username = ?", req.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "username", req.Username)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	token, err := jwt.GenerateToken(user.Username, user.RoleID)
	if err != nil {
		log.Error("签发令牌失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	log.Info("用户登录成功", "username", user.Username, "role_id", user.RoleID)
	response.Success(c, gin.H{
		"token":    token,
		"username": user.Username,
		"role_id":  user.RoleID,
	})
}

// ChangePasswordReq 定义修改密码请求的结构体
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"` // 旧密码，用于验证
	NewPassword string `json:"new_password" binding:"required"` // 新密码，需加密后保存
}

// ChangePassword 处理用户修改密码请求
func ChangePassword(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定修改密码请求失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if err := validatePasswordStrength(req.NewPassword); err != nil {
		log.Warn("新密码强度验证失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	if err := database.DB.Where("username = ?", payload.Username).First(&user).Error; err != nil {
		log.Error("查询用户失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		log.Warn("旧密码错误", "username", payload.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	if err := database.DB.Model(&user).
		Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户修改密码成功", "username", user.Username)
	response.Success(c)
}

// ProfileReq 定义更新个人资料请求的结构体，使用指针类型支持部分更新
type ProfileReq struct {
	NickName *string `json:"nick_name"` // 昵称，可选
	Avatar   *string `json:"avatar"`    // 头像URL，可选
}

// UpdateProfile 处理更新个人资料请求
func UpdateProfile(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定资料请求失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	updates := map[string]any{}
	if req.NickName != nil {
		updates["nick_name"] = *req.NickName
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		response.Success(c)
		return
	}

	if err := database.DB.Model(&model.User{}).
		Where("username = ?", payload.Username).
		Updates(updates).Error; err != nil {
		log.Error("更新资料失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c)
}

func getMe(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var user model.User
	if err := database.DB.Where("username = ?", payload.Username).First(&user).Error; err != nil {
		log.Error("查询用户失败", "error", err, "username", payload.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, user)
}

// validatePasswordStrength 密码至少 8 位，且同时包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("密码长度至少8位")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("密码需同时包含字母和数字")
	}
	return nil
}
